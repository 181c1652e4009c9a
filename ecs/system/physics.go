package system

import (
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/physics"
	"github.com/sirupsen/logrus"
)

type trackedOccluder struct {
	id        physics.ShapeID
	occluder  component.Occluder
	transform component.Transform
	layer     int
}

// PhysicsSystem mirrors Occluder entities into the occlusion space. Shapes are
// rebuilt when an occluder moves or changes and removed when it disappears.
type PhysicsSystem struct {
	world   *physics.OcclusionWorld
	tracked map[ecs.Entity]trackedOccluder
	log     *logrus.Entry
}

func NewPhysicsSystem(ow *physics.OcclusionWorld) *PhysicsSystem {
	if ow == nil {
		ow = physics.NewOcclusionWorld()
	}
	return &PhysicsSystem{
		world:   ow,
		tracked: make(map[ecs.Entity]trackedOccluder),
		log:     logrus.WithField("system", "physics"),
	}
}

// OcclusionWorld returns the space sensors cast against.
func (ps *PhysicsSystem) OcclusionWorld() *physics.OcclusionWorld {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	seen := make(map[ecs.Entity]struct{}, len(ps.tracked))
	ecs.ForEach2(w, component.OccluderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, occ *component.Occluder, t *component.Transform) {
		seen[e] = struct{}{}
		layer := 0
		if cl, ok := ecs.Get(w, e, component.CollisionLayerComponent); ok {
			layer = cl.Layer
		}

		prev, ok := ps.tracked[e]
		if ok && prev.occluder == *occ && prev.transform == *t && prev.layer == layer {
			return
		}
		if ok {
			ps.world.Remove(prev.id)
			delete(ps.tracked, e)
		}

		id, err := ps.addShape(*occ, *t, layer)
		if err != nil {
			ps.log.WithFields(logrus.Fields{
				"entity": e,
				"shape":  occ.Shape,
				"layer":  layer,
			}).WithError(err).Warn("occluder rejected")
			return
		}
		ps.tracked[e] = trackedOccluder{id: id, occluder: *occ, transform: *t, layer: layer}
	})

	for e, tr := range ps.tracked {
		if _, ok := seen[e]; ok {
			continue
		}
		ps.world.Remove(tr.id)
		delete(ps.tracked, e)
	}
}

func (ps *PhysicsSystem) addShape(occ component.Occluder, t component.Transform, layer int) (physics.ShapeID, error) {
	switch occ.Shape {
	case component.OccluderCircle:
		return ps.world.AddCircle(t.Position(), occ.Radius, layer)
	case component.OccluderSegment:
		return ps.world.AddSegment(t.Position(), occ.End, occ.Thickness, layer)
	default:
		return ps.world.AddBox(t.Position(), occ.Width, occ.Depth, layer)
	}
}
