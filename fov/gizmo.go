package fov

import (
	"math"

	"github.com/milk9111/fovsystem/geom"
)

// Segment is a line between two world points.
type Segment struct {
	From geom.Vec3
	To   geom.Vec3
}

// Gizmo is the debug overlay of a sensor: the radius circle and both cone edges.
type Gizmo struct {
	Center geom.Vec3
	Radius float64
	Angle  float64
	Yaw    float64
	EdgeA  Segment
	EdgeB  Segment
}

// DebugVisualize describes the overlay for the sensor at pose. The cone edges are
// the forward heading rotated by plus and minus half the view angle around the
// vertical axis, scaled by the view radius.
func (s *Sensor) DebugVisualize(pose Pose) Gizmo {
	yaw := pose.Forward.Yaw()
	half := s.HalfAngle()
	radius := s.ViewRadius()
	return Gizmo{
		Center: pose.Position,
		Radius: radius,
		Angle:  s.ViewAngle(),
		Yaw:    yaw,
		EdgeA:  Segment{From: pose.Position, To: pose.Position.Add(geom.DirectionFromYaw(yaw + half).Scale(radius))},
		EdgeB:  Segment{From: pose.Position, To: pose.Position.Add(geom.DirectionFromYaw(yaw - half).Scale(radius))},
	}
}

// Outline returns n points on the radius circle, on the horizontal plane
// through the center.
func (g Gizmo) Outline(n int) []geom.Vec3 {
	if n < 3 {
		n = 3
	}
	out := make([]geom.Vec3, 0, n)
	for i := 0; i < n; i++ {
		t := 360 * float64(i) / float64(n)
		out = append(out, g.Center.Add(geom.DirectionFromYaw(t).Scale(g.Radius)))
	}
	return out
}

// Sector returns the closed outline of the cone: the center, n+1 arc points from
// EdgeB to EdgeA, and the center again.
func (g Gizmo) Sector(n int) []geom.Vec3 {
	if n < 1 {
		n = 1
	}
	out := make([]geom.Vec3, 0, n+3)
	out = append(out, g.Center)
	start := g.Yaw - g.Angle/2
	for i := 0; i <= n; i++ {
		t := start + g.Angle*float64(i)/float64(n)
		out = append(out, g.Center.Add(geom.DirectionFromYaw(t).Scale(g.Radius)))
	}
	return append(out, g.Center)
}

// SectorArea is the area of the cone on the horizontal plane.
func (g Gizmo) SectorArea() float64 {
	return math.Pi * g.Radius * g.Radius * g.Angle / 360
}
