package entity

import (
	"fmt"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/prefabs"
)

// Scenario indexes the entities built from a scenario spec by name.
type Scenario struct {
	Name    string
	Sensors map[string]ecs.Entity
	Targets map[string]ecs.Entity
	Walls   map[string]ecs.Entity
	// Order lists sensor names as they appear in the scenario file.
	Order []string
}

// BuildScenario populates w from spec. Sensor prefabs are loaded through
// prefabs.LoadSensorSpec and each sensor is pointed at its target by its owner.
func BuildScenario(w *ecs.World, spec prefabs.ScenarioSpec, layers prefabs.LayerTable) (*Scenario, error) {
	sc := &Scenario{
		Name:    spec.Name,
		Sensors: make(map[string]ecs.Entity),
		Targets: make(map[string]ecs.Entity),
		Walls:   make(map[string]ecs.Entity),
	}

	for i, ts := range spec.Targets {
		e, err := BuildTarget(w, ts)
		if err != nil {
			return nil, err
		}
		sc.Targets[nameOr(ts.Name, "target", i)] = e
	}

	for i, ws := range spec.Walls {
		e, err := BuildWall(w, ws, layers)
		if err != nil {
			return nil, err
		}
		sc.Walls[nameOr(ws.Name, "wall", i)] = e
	}

	for i, ss := range spec.Sensors {
		prefab, err := prefabs.LoadSensorSpec(ss.Prefab)
		if err != nil {
			return nil, fmt.Errorf("entity: scenario %q sensor %d: %w", spec.Name, i, err)
		}
		sensorSpec := *prefab
		if ss.Name != "" {
			sensorSpec.Name = ss.Name
		}
		if ss.Transform != nil {
			sensorSpec.Transform = *ss.Transform
		}
		if ss.Script != "" {
			sensorSpec.Script = ss.Script
		}

		e, err := BuildSensor(w, sensorSpec, layers)
		if err != nil {
			return nil, err
		}
		name := nameOr(sensorSpec.Name, "sensor", i)
		sc.Sensors[name] = e
		sc.Order = append(sc.Order, name)

		if ss.Target == "" {
			continue
		}
		target, ok := sc.Targets[ss.Target]
		if !ok {
			return nil, fmt.Errorf("entity: scenario %q sensor %q: unknown target %q", spec.Name, name, ss.Target)
		}
		fovComp, _ := ecs.GetPtr(w, e, component.FieldOfViewComponent)
		fovComp.Sensor.SetTarget(e.Identity(), target.Identity())
	}

	return sc, nil
}

func nameOr(name, kind string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", kind, i)
}
