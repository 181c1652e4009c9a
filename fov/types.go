package fov

import "github.com/milk9111/fovsystem/geom"

// Identity is an opaque handle naming an entity. The zero value names nothing.
type Identity uint64

const NoIdentity Identity = 0

func (id Identity) Valid() bool {
	return id != NoIdentity
}

// LayerMask selects which collision layers block line of sight.
type LayerMask uint32

const (
	Nothing    LayerMask = 0
	Everything LayerMask = ^LayerMask(0)

	MaxLayers = 32
)

// LayerMaskOf builds a mask with the given layer indices set. Indices outside
// [0, MaxLayers) are ignored.
func LayerMaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l < 0 || l >= MaxLayers {
			continue
		}
		m |= 1 << uint(l)
	}
	return m
}

func (m LayerMask) Contains(layer int) bool {
	if layer < 0 || layer >= MaxLayers {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// Pose is the sensor origin and facing, owned by the hosting entity.
type Pose struct {
	Position geom.Vec3
	Forward  geom.Vec3
}

// PoseFromYaw builds a pose facing yaw degrees on the horizontal plane.
func PoseFromYaw(position geom.Vec3, yaw float64) Pose {
	return Pose{Position: position, Forward: geom.DirectionFromYaw(yaw)}
}

type Outcome int

const (
	// Skipped means there was no target to test; neither callback runs.
	Skipped Outcome = iota
	Visible
	NotVisible
)

func (o Outcome) String() string {
	switch o {
	case Visible:
		return "visible"
	case NotVisible:
		return "not_visible"
	default:
		return "skipped"
	}
}

// Reason explains a NotVisible outcome.
type Reason int

const (
	ReasonNone Reason = iota
	OutOfRange
	OutsideCone
	Occluded
)

func (r Reason) String() string {
	switch r {
	case OutOfRange:
		return "out_of_range"
	case OutsideCone:
		return "outside_cone"
	case Occluded:
		return "occluded"
	default:
		return "none"
	}
}

// Result is the outcome of a single evaluation.
type Result struct {
	Outcome        Outcome
	Reason         Reason
	Target         Identity
	TargetPosition geom.Vec3
	Distance       float64
	// Angle is the unsigned angle between forward and the target direction in
	// degrees. Zero when the range check already failed.
	Angle    float64
	HitPoint geom.Vec3
}

func (r Result) Visible() bool {
	return r.Outcome == Visible
}

// Config is the designer-facing sensor configuration.
type Config struct {
	ViewRadius    float64
	ViewAngle     float64
	OcclusionMask LayerMask
	Target        Identity
}
