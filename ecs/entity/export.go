package entity

import (
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/prefabs"
)

// SensorSpecOf snapshots the live sensor on e back into a prefab spec, so a
// tuned sensor can be saved as a new prefab.
func SensorSpecOf(w *ecs.World, e ecs.Entity, layers prefabs.LayerTable) (prefabs.SensorSpec, bool) {
	fc, ok := ecs.Get(w, e, component.FieldOfViewComponent)
	if !ok || fc.Sensor == nil {
		return prefabs.SensorSpec{}, false
	}
	t, _ := ecs.Get(w, e, component.TransformComponent)

	spec := prefabs.SensorSpec{
		Transform: prefabs.TransformSpec{X: t.X, Y: t.Y, Z: t.Z, Yaw: t.Yaw},
		FieldOfView: prefabs.FieldOfViewSpec{
			ViewRadius:      fc.Sensor.ViewRadius(),
			ViewAngle:       fc.Sensor.ViewAngle(),
			OcclusionLayers: layers.Names(fc.Sensor.OcclusionMask()),
			Debug:           fc.Debug,
		},
	}
	if n, ok := ecs.Get(w, e, component.NameComponent); ok {
		spec.Name = n.Value
	}
	if colors, ok := ecs.Get(w, e, component.SensorColorsComponent); ok {
		if colors.Seen != nil {
			spec.FieldOfView.SeenColor = &prefabs.YAMLColor{Color: colors.Seen}
		}
		if colors.Blocked != nil {
			spec.FieldOfView.BlockedColor = &prefabs.YAMLColor{Color: colors.Blocked}
		}
	}
	if sc, ok := ecs.Get(w, e, component.SensorScriptComponent); ok {
		spec.Script = sc.Path
	}
	return spec, true
}
