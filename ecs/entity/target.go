package entity

import (
	"fmt"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/prefabs"
)

// BuildTarget creates something sensors can watch. Its marker starts as not
// visible.
func BuildTarget(w *ecs.World, spec prefabs.TargetSpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, transformFromSpec(spec.Transform)); err != nil {
		return 0, fmt.Errorf("entity: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.VisibilityMarkerComponent, component.VisibilityMarker{Color: fov.DefaultBlockedColor}); err != nil {
		return 0, fmt.Errorf("entity: add marker: %w", err)
	}
	if err := ecs.Add(w, e, component.TargetTagComponent, component.TargetTag{}); err != nil {
		return 0, fmt.Errorf("entity: add target tag: %w", err)
	}
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent, component.Name{Value: spec.Name}); err != nil {
			return 0, fmt.Errorf("entity: add name: %w", err)
		}
	}
	return e, nil
}
