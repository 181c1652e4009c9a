package render

import "github.com/milk9111/fovsystem/geom"

// Camera looks straight down on the X/Z plane. +Z points up the screen and +X
// to the right, so a yaw of 0 faces up and 90 faces right.
type Camera struct {
	X, Z   float64
	Zoom   float64
	Width  int
	Height int
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// ToScreen maps a world point to screen pixels.
func (c Camera) ToScreen(v geom.Vec3) (float32, float32) {
	z := c.zoom()
	x := float64(c.Width)/2 + (v.X-c.X)*z
	y := float64(c.Height)/2 - (v.Z-c.Z)*z
	return float32(x), float32(y)
}

// ToWorld maps screen pixels back onto the ground plane.
func (c Camera) ToWorld(x, y float64) geom.Vec3 {
	z := c.zoom()
	return geom.Vec3{
		X: c.X + (x-float64(c.Width)/2)/z,
		Z: c.Z - (y-float64(c.Height)/2)/z,
	}
}

// Length scales a world distance to pixels.
func (c Camera) Length(d float64) float32 {
	return float32(d * c.zoom())
}
