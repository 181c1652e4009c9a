package component

import "github.com/milk9111/fovsystem/fov"

type AdjustMode int

const (
	AdjustIncrease AdjustMode = iota
	AdjustDecrease
)

// FieldOfViewAdjustRequest asks the sensor on this entity to grow or shrink.
// Caller is checked against the sensor owner when the request is processed.
type FieldOfViewAdjustRequest struct {
	Caller fov.Identity
	Mode   AdjustMode
	Radius float64
	Angle  float64
}

var FieldOfViewAdjustRequestComponent = NewComponent[FieldOfViewAdjustRequest]()

// TargetAssignRequest asks the sensor on this entity to watch Target. A zero
// Target clears it.
type TargetAssignRequest struct {
	Caller fov.Identity
	Target fov.Identity
}

var TargetAssignRequestComponent = NewComponent[TargetAssignRequest]()
