// Package physics answers line-of-sight queries against static occluders kept in
// a Chipmunk2D space. The space lies on the horizontal X/Z plane: a world point
// (x, y, z) maps to the Chipmunk vector (x, z) and heights are ignored.
package physics

import (
	"errors"
	"math"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fovsystem/common"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
)

var (
	ErrInvalidLayer = errors.New("physics: layer out of range")
	ErrInvalidShape = errors.New("physics: shape has no area")
)

// ShapeID identifies an occluder added to an OcclusionWorld.
type ShapeID int

// allCategories matches every collision category.
const allCategories = ^uint(0)

// OcclusionWorld owns the Chipmunk space holding wall shapes. Chipmunk bumps a
// lock counter on every query, so queries and edits are serialized.
type OcclusionWorld struct {
	mu     sync.Mutex
	space  *cp.Space
	shapes map[ShapeID]*cp.Shape
	nextID ShapeID
}

// NewOcclusionWorld creates an empty occlusion space.
func NewOcclusionWorld() *OcclusionWorld {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &OcclusionWorld{
		space:  space,
		shapes: make(map[ShapeID]*cp.Shape),
	}
}

// Space returns the underlying Chipmunk space.
func (ow *OcclusionWorld) Space() *cp.Space {
	if ow == nil {
		return nil
	}
	return ow.space
}

// AddBox adds an axis-aligned box occluder centered at center with the given
// extents along X and Z.
func (ow *OcclusionWorld) AddBox(center geom.Vec3, width, depth float64, layer int) (ShapeID, error) {
	if width <= 0 || depth <= 0 {
		return 0, ErrInvalidShape
	}
	c := toCP(center)
	bb := cp.BB{L: c.X - width/2, B: c.Y - depth/2, R: c.X + width/2, T: c.Y + depth/2}
	return ow.add(layer, func(body *cp.Body) *cp.Shape {
		return cp.NewBox2(body, bb, 0)
	})
}

// AddCircle adds a round occluder such as a pillar.
func (ow *OcclusionWorld) AddCircle(center geom.Vec3, radius float64, layer int) (ShapeID, error) {
	if radius <= 0 {
		return 0, ErrInvalidShape
	}
	return ow.add(layer, func(body *cp.Body) *cp.Shape {
		return cp.NewCircle(body, radius, toCP(center))
	})
}

// AddSegment adds a thin wall between a and b with the given half thickness.
func (ow *OcclusionWorld) AddSegment(a, b geom.Vec3, thickness float64, layer int) (ShapeID, error) {
	if a.X == b.X && a.Z == b.Z {
		return 0, ErrInvalidShape
	}
	return ow.add(layer, func(body *cp.Body) *cp.Shape {
		return cp.NewSegment(body, toCP(a), toCP(b), thickness)
	})
}

func (ow *OcclusionWorld) add(layer int, build func(body *cp.Body) *cp.Shape) (ShapeID, error) {
	if ow == nil {
		return 0, ErrInvalidShape
	}
	if layer < 0 || layer >= fov.MaxLayers {
		return 0, ErrInvalidLayer
	}

	ow.mu.Lock()
	defer ow.mu.Unlock()

	shape := build(ow.space.StaticBody)
	shape.SetFilter(cp.ShapeFilter{
		Group:      0,
		Categories: uint(fov.LayerMaskOf(layer)),
		Mask:       allCategories,
	})
	ow.space.AddShape(shape)

	ow.nextID++
	ow.shapes[ow.nextID] = shape
	return ow.nextID, nil
}

// Remove deletes an occluder. Unknown ids are ignored.
func (ow *OcclusionWorld) Remove(id ShapeID) {
	if ow == nil {
		return
	}
	ow.mu.Lock()
	defer ow.mu.Unlock()

	shape, ok := ow.shapes[id]
	if !ok {
		return
	}
	ow.space.RemoveShape(shape)
	delete(ow.shapes, id)
}

// Len returns the number of occluders.
func (ow *OcclusionWorld) Len() int {
	if ow == nil {
		return 0
	}
	ow.mu.Lock()
	defer ow.mu.Unlock()
	return len(ow.shapes)
}

// Draw hands every shape to a Chipmunk debug drawer.
func (ow *OcclusionWorld) Draw(drawer cp.Drawer) {
	if ow == nil || drawer == nil {
		return
	}
	ow.mu.Lock()
	defer ow.mu.Unlock()
	cp.DrawSpace(ow.space, drawer)
}

// Raycast implements fov.Occluder. The hit point is placed on the real 3D
// segment at the fraction Chipmunk reports on the projected one.
func (ow *OcclusionWorld) Raycast(origin, direction geom.Vec3, maxDistance float64, mask fov.LayerMask) (geom.Vec3, bool) {
	if ow == nil || maxDistance <= 0 || mask == fov.Nothing {
		return geom.Vec3{}, false
	}
	end := origin.Add(direction.Scale(maxDistance))
	start2, end2 := toCP(origin), toCP(end)
	if math.Abs(end2.X-start2.X) < common.Epsilon && math.Abs(end2.Y-start2.Y) < common.Epsilon {
		return geom.Vec3{}, false
	}

	filter := cp.ShapeFilter{
		Group:      0,
		Categories: allCategories,
		Mask:       uint(mask),
	}

	ow.mu.Lock()
	info := ow.space.SegmentQueryFirst(start2, end2, 0, filter)
	ow.mu.Unlock()

	if info.Shape == nil {
		return geom.Vec3{}, false
	}
	return origin.Add(end.Sub(origin).Scale(info.Alpha)), true
}

func toCP(v geom.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

// FromCP maps a Chipmunk vector back onto the ground plane.
func FromCP(v cp.Vector) geom.Vec3 {
	return geom.Vec3{X: v.X, Z: v.Y}
}
