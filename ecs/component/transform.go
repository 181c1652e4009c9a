package component

import (
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
)

// Transform is a world position plus a heading on the horizontal plane. Yaw is
// in degrees, clockwise from +Z toward +X.
type Transform struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

func (t Transform) Position() geom.Vec3 {
	return geom.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

func (t Transform) Forward() geom.Vec3 {
	return geom.DirectionFromYaw(t.Yaw)
}

func (t Transform) Pose() fov.Pose {
	return fov.Pose{Position: t.Position(), Forward: t.Forward()}
}

var TransformComponent = NewComponent[Transform]()
