package component

import "github.com/milk9111/fovsystem/geom"

type OccluderShape string

const (
	OccluderBox     OccluderShape = "box"
	OccluderCircle  OccluderShape = "circle"
	OccluderSegment OccluderShape = "segment"
)

// Occluder is static geometry that blocks line of sight. Box and circle shapes
// are centered on the entity transform; a segment runs from the transform to End.
type Occluder struct {
	Shape     OccluderShape
	Width     float64
	Depth     float64
	Radius    float64
	End       geom.Vec3
	Thickness float64
}

var OccluderComponent = NewComponent[Occluder]()
