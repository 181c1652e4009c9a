package entity

import (
	"fmt"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/geom"
	"github.com/milk9111/fovsystem/prefabs"
)

// BuildWall creates an occluder entity. The physics system picks it up on its
// next update.
func BuildWall(w *ecs.World, spec prefabs.WallSpec, layers prefabs.LayerTable) (ecs.Entity, error) {
	layer := 0
	if spec.Layer != "" {
		idx, err := layers.Index(spec.Layer)
		if err != nil {
			return 0, fmt.Errorf("entity: wall %q: %w", spec.Name, err)
		}
		layer = idx
	}

	occ := component.Occluder{
		Shape:     component.OccluderShape(spec.Shape),
		Width:     spec.Width,
		Depth:     spec.Depth,
		Radius:    spec.Radius,
		End:       geom.Vec3{X: spec.End.X, Y: spec.End.Y, Z: spec.End.Z},
		Thickness: spec.Thickness,
	}
	switch occ.Shape {
	case component.OccluderBox, component.OccluderCircle, component.OccluderSegment:
	case "":
		occ.Shape = component.OccluderBox
	default:
		return 0, fmt.Errorf("entity: wall %q: unknown shape %q", spec.Name, spec.Shape)
	}

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, transformFromSpec(spec.Transform)); err != nil {
		return 0, fmt.Errorf("entity: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.OccluderComponent, occ); err != nil {
		return 0, fmt.Errorf("entity: add occluder: %w", err)
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent, component.CollisionLayer{Layer: layer}); err != nil {
		return 0, fmt.Errorf("entity: add collision layer: %w", err)
	}
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent, component.Name{Value: spec.Name}); err != nil {
			return 0, fmt.Errorf("entity: add name: %w", err)
		}
	}
	return e, nil
}
