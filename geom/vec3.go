package geom

import (
	"math"

	"github.com/milk9111/fovsystem/common"
)

// Vec3 is a point or direction in world space. Y is the vertical axis.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) SqrMagnitude() float64 {
	return v.Dot(v)
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// Normalized returns the unit vector, or Zero when v has no length.
func (v Vec3) Normalized() Vec3 {
	mag := v.Magnitude()
	if mag == 0 {
		return Zero
	}
	return v.Scale(1 / mag)
}

// Distance returns |a - b|.
func Distance(a, b Vec3) float64 {
	return b.Sub(a).Magnitude()
}

// Angle returns the unsigned angle between from and to in degrees, in [0, 180].
// A zero-length operand yields 0.
func Angle(from, to Vec3) float64 {
	denom := math.Sqrt(from.SqrMagnitude() * to.SqrMagnitude())
	if denom < common.Epsilon {
		return 0
	}
	dot := common.Clamp(from.Dot(to)/denom, -1, 1)
	return math.Acos(dot) * common.Rad2Deg
}

// DirectionFromYaw returns the unit vector on the horizontal plane for a yaw in
// degrees, measured clockwise from +Z toward +X.
func DirectionFromYaw(deg float64) Vec3 {
	rad := deg * common.Deg2Rad
	return Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

// Yaw returns the heading of v on the horizontal plane in degrees, the inverse of
// DirectionFromYaw. The vertical component is ignored.
func (v Vec3) Yaw() float64 {
	if v.X == 0 && v.Z == 0 {
		return 0
	}
	return math.Atan2(v.X, v.Z) * common.Rad2Deg
}

// RotateYaw rotates v around the vertical axis by deg degrees.
func (v Vec3) RotateYaw(deg float64) Vec3 {
	rad := deg * common.Deg2Rad
	sin, cos := math.Sincos(rad)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// ApproxEqual reports whether every component differs by at most eps.
func ApproxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
