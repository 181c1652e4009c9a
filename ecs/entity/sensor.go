package entity

import (
	"fmt"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/prefabs"
)

// BuildSensor creates an entity carrying the sensor described by spec. The new
// entity owns its sensor.
func BuildSensor(w *ecs.World, spec prefabs.SensorSpec, layers prefabs.LayerTable) (ecs.Entity, error) {
	cfg, err := spec.FieldOfView.Config(layers)
	if err != nil {
		return 0, fmt.Errorf("entity: sensor %q: %w", spec.Name, err)
	}

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, transformFromSpec(spec.Transform)); err != nil {
		return 0, fmt.Errorf("entity: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.FieldOfViewComponent, component.FieldOfView{
		Sensor: fov.New(e.Identity(), cfg),
		Debug:  spec.FieldOfView.Debug,
	}); err != nil {
		return 0, fmt.Errorf("entity: add field of view: %w", err)
	}
	if err := ecs.Add(w, e, component.LineRenderComponent, component.LineRender{Width: 1, AntiAlias: true}); err != nil {
		return 0, fmt.Errorf("entity: add line render: %w", err)
	}
	if err := ecs.Add(w, e, component.SensorColorsComponent, component.SensorColors{
		Seen:    spec.FieldOfView.SeenColor.ColorOr(fov.DefaultSeenColor),
		Blocked: spec.FieldOfView.BlockedColor.ColorOr(fov.DefaultBlockedColor),
	}); err != nil {
		return 0, fmt.Errorf("entity: add sensor colors: %w", err)
	}
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent, component.Name{Value: spec.Name}); err != nil {
			return 0, fmt.Errorf("entity: add name: %w", err)
		}
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.SensorScriptComponent, component.SensorScript{Path: spec.Script}); err != nil {
			return 0, fmt.Errorf("entity: add sensor script: %w", err)
		}
	}
	return e, nil
}

func transformFromSpec(spec prefabs.TransformSpec) component.Transform {
	return component.Transform{X: spec.X, Y: spec.Y, Z: spec.Z, Yaw: spec.Yaw}
}
