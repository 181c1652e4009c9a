package system

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/ecs/entity"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"github.com/milk9111/fovsystem/physics"
	"github.com/milk9111/fovsystem/prefabs"
	"github.com/milk9111/fovsystem/script"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func loadCourtyard(t *testing.T) (*ecs.World, *entity.Scenario) {
	t.Helper()
	layers, err := prefabs.LoadLayers()
	if err != nil {
		t.Fatalf("load layers: %v", err)
	}
	spec, err := prefabs.LoadScenario("courtyard.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	w := ecs.NewWorld()
	sc, err := entity.BuildScenario(w, *spec, layers)
	if err != nil {
		t.Fatalf("build scenario: %v", err)
	}
	return w, sc
}

func TestFieldOfViewSystemCourtyard(t *testing.T) {
	w, sc := loadCourtyard(t)
	ps := NewPhysicsSystem(nil)
	sched := ecs.NewScheduler(ps, NewFieldOfViewSystem(ps.OcclusionWorld(), nil))
	sched.Update(w)

	if got := ps.OcclusionWorld().Len(); got != 4 {
		t.Fatalf("expected 4 occluder shapes, got %d", got)
	}

	guard := sc.Sensors["north_guard"]
	gfc, _ := ecs.Get(w, guard, component.FieldOfViewComponent)
	if gfc.Last.Outcome != fov.Visible {
		t.Fatalf("north_guard: expected visible through glass, got %v/%v", gfc.Last.Outcome, gfc.Last.Reason)
	}
	glines, _ := ecs.Get(w, guard, component.LineRenderComponent)
	if len(glines.Lines) != 1 || !geom.ApproxEqual(glines.Lines[0].To, geom.Vec3{Z: 6}, 1e-9) {
		t.Fatalf("north_guard: expected one line to the intruder, got %+v", glines.Lines)
	}

	tower := sc.Sensors["tower"]
	tfc, _ := ecs.Get(w, tower, component.FieldOfViewComponent)
	if tfc.Last.Outcome != fov.NotVisible || tfc.Last.Reason != fov.Occluded {
		t.Fatalf("tower: expected occluded by crate, got %v/%v", tfc.Last.Outcome, tfc.Last.Reason)
	}
	tlines, _ := ecs.Get(w, tower, component.LineRenderComponent)
	if len(tlines.Lines) != 1 {
		t.Fatalf("tower: expected one line to the hit point, got %d", len(tlines.Lines))
	}
	if hit := tlines.Lines[0].To; math.Abs(hit.X-5) > 1e-6 || hit.Z < 4 || hit.Z > 6 {
		t.Fatalf("tower: hit point %+v not on the crate face", hit)
	}

	marker, _ := ecs.Get(w, sc.Targets["intruder"], component.VisibilityMarkerComponent)
	if !marker.Visible {
		t.Fatalf("intruder marker should be visible")
	}

	var visible, notVisible int
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventTargetVisible:
			visible++
		case ecs.EventTargetNotVisible:
			notVisible++
		}
	}
	if visible != 1 || notVisible != 1 {
		t.Fatalf("expected 1 visible and 1 not-visible event, got %d and %d", visible, notVisible)
	}

	// Lines are rebuilt every tick rather than accumulated.
	sched.Update(w)
	glines, _ = ecs.Get(w, guard, component.LineRenderComponent)
	if len(glines.Lines) != 1 {
		t.Fatalf("expected lines to be replaced per tick, got %d", len(glines.Lines))
	}
}

func TestFieldOfViewSystemOutsideConeClearsMarker(t *testing.T) {
	w := ecs.NewWorld()
	target := w.CreateEntity()
	_ = ecs.Add(w, target, component.TransformComponent, component.Transform{Z: -4})
	_ = ecs.Add(w, target, component.VisibilityMarkerComponent, component.VisibilityMarker{Visible: true})

	sensor := w.CreateEntity()
	_ = ecs.Add(w, sensor, component.TransformComponent, component.Transform{})
	_ = ecs.Add(w, sensor, component.FieldOfViewComponent, component.FieldOfView{
		Sensor: fov.New(sensor.Identity(), fov.Config{ViewRadius: 10, ViewAngle: 90, Target: target.Identity()}),
	})
	_ = ecs.Add(w, sensor, component.LineRenderComponent, component.LineRender{})

	NewFieldOfViewSystem(nil, nil).Update(w)

	marker, _ := ecs.Get(w, target, component.VisibilityMarkerComponent)
	if marker.Visible {
		t.Fatalf("marker should be cleared for a target behind the sensor")
	}
	if marker.Color != fov.DefaultBlockedColor {
		t.Fatalf("marker color = %v, want default blocked color", marker.Color)
	}
	lines, _ := ecs.Get(w, sensor, component.LineRenderComponent)
	if len(lines.Lines) != 0 {
		t.Fatalf("outside cone should draw nothing, got %d lines", len(lines.Lines))
	}
}

func TestFieldOfViewSystemDestroyedTargetIsSkipped(t *testing.T) {
	w, sc := loadCourtyard(t)
	w.DestroyEntity(sc.Targets["intruder"])
	// The reused slot must not be mistaken for the old target.
	reused := w.CreateEntity()
	_ = ecs.Add(w, reused, component.TransformComponent, component.Transform{Z: 1})

	NewFieldOfViewSystem(nil, nil).Update(w)

	for name, e := range sc.Sensors {
		fc, _ := ecs.Get(w, e, component.FieldOfViewComponent)
		if fc.Last.Outcome != fov.Skipped {
			t.Fatalf("%s: expected skipped, got %v", name, fc.Last.Outcome)
		}
		lines, _ := ecs.Get(w, e, component.LineRenderComponent)
		if len(lines.Lines) != 0 {
			t.Fatalf("%s: skipped sensor drew %d lines", name, len(lines.Lines))
		}
	}
	if n := w.Events().Len(); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestFieldOfViewSystemScriptRequests(t *testing.T) {
	const src = `
on_visible := func(sensor) { return {reach: 2, widen: 10} }
on_not_visible := func(sensor) { return {forget: true} }
`
	rt := script.NewRuntime(func(path string) ([]byte, error) {
		if path != "probe.tengo" {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	})

	w := ecs.NewWorld()
	target := w.CreateEntity()
	_ = ecs.Add(w, target, component.TransformComponent, component.Transform{Z: 3})

	sensor := w.CreateEntity()
	fs := fov.New(sensor.Identity(), fov.Config{ViewRadius: 5, ViewAngle: 60, Target: target.Identity()})
	_ = ecs.Add(w, sensor, component.TransformComponent, component.Transform{})
	_ = ecs.Add(w, sensor, component.FieldOfViewComponent, component.FieldOfView{Sensor: fs})
	_ = ecs.Add(w, sensor, component.SensorScriptComponent, component.SensorScript{Path: "probe.tengo"})

	sched := ecs.NewScheduler(NewFieldOfViewSystem(nil, rt), NewFieldOfViewRequestSystem())
	sched.Update(w)

	if fs.ViewRadius() != 7 || fs.ViewAngle() != 70 {
		t.Fatalf("expected script to widen to 7/70, got %v/%v", fs.ViewRadius(), fs.ViewAngle())
	}
	if ecs.Has(w, sensor, component.FieldOfViewAdjustRequestComponent) {
		t.Fatalf("adjust request should be consumed")
	}

	// Move the target out of range: on_not_visible forgets it.
	tf, _ := ecs.GetPtr(w, target, component.TransformComponent)
	tf.Z = 20
	sched.Update(w)
	if fs.Target().Valid() {
		t.Fatalf("expected target to be forgotten, still %v", fs.Target())
	}
}

func TestFieldOfViewSystemSurvivesFailingScript(t *testing.T) {
	logger, hook := test.NewNullLogger()
	rt := script.NewRuntime(func(path string) ([]byte, error) {
		return []byte(`
on_visible := func(s) {
	zero := 0
	return {reach: 1 / zero}
}
on_not_visible := func(s) { return undefined }
`), nil
	})

	w := ecs.NewWorld()
	target := w.CreateEntity()
	_ = ecs.Add(w, target, component.TransformComponent, component.Transform{Z: 3})

	sensor := w.CreateEntity()
	fs := fov.New(sensor.Identity(), fov.Config{ViewRadius: 5, ViewAngle: 60, Target: target.Identity()})
	_ = ecs.Add(w, sensor, component.TransformComponent, component.Transform{})
	_ = ecs.Add(w, sensor, component.FieldOfViewComponent, component.FieldOfView{Sensor: fs})
	_ = ecs.Add(w, sensor, component.SensorScriptComponent, component.SensorScript{Path: "div.tengo"})

	sys := NewFieldOfViewSystem(nil, rt)
	sys.log = logrus.NewEntry(logger)

	func() {
		defer func() {
			if p := recover(); p != nil {
				t.Fatalf("tick panicked on a script error: %v", p)
			}
		}()
		sys.Update(w)
	}()

	fc, _ := ecs.Get(w, sensor, component.FieldOfViewComponent)
	if fc.Last.Outcome != fov.Visible {
		t.Fatalf("verdict should still be recorded, got %v", fc.Last.Outcome)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data["script"] != "div.tengo" {
		t.Fatalf("expected a warn entry for the script, got %+v", entry)
	}
	if ecs.Has(w, sensor, component.FieldOfViewAdjustRequestComponent) {
		t.Fatalf("a failed script must not queue requests")
	}
}

func TestFieldOfViewRequestSystemOwnerGating(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	w := ecs.NewWorld()
	sensor := w.CreateEntity()
	stranger := w.CreateEntity()
	fs := fov.New(sensor.Identity(), fov.Config{ViewRadius: 10, ViewAngle: 90})
	_ = ecs.Add(w, sensor, component.FieldOfViewComponent, component.FieldOfView{Sensor: fs})

	rs := &FieldOfViewRequestSystem{Log: logrus.NewEntry(logger)}

	cases := []struct {
		name       string
		req        component.FieldOfViewAdjustRequest
		wantRadius float64
		wantAngle  float64
		rejected   bool
	}{
		{
			name:       "owner increase",
			req:        component.FieldOfViewAdjustRequest{Caller: sensor.Identity(), Mode: component.AdjustIncrease, Radius: 2.5, Angle: 15},
			wantRadius: 12.5,
			wantAngle:  105,
		},
		{
			name:       "owner decrease restores",
			req:        component.FieldOfViewAdjustRequest{Caller: sensor.Identity(), Mode: component.AdjustDecrease, Radius: 2.5, Angle: 15},
			wantRadius: 10,
			wantAngle:  90,
		},
		{
			name:       "stranger rejected",
			req:        component.FieldOfViewAdjustRequest{Caller: stranger.Identity(), Mode: component.AdjustIncrease, Radius: 100, Angle: 100},
			wantRadius: 10,
			wantAngle:  90,
			rejected:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook.Reset()
			_ = ecs.Add(w, sensor, component.FieldOfViewAdjustRequestComponent, tc.req)
			rs.Update(w)

			if fs.ViewRadius() != tc.wantRadius || fs.ViewAngle() != tc.wantAngle {
				t.Fatalf("got %v/%v, want %v/%v", fs.ViewRadius(), fs.ViewAngle(), tc.wantRadius, tc.wantAngle)
			}
			events := w.Events().Drain()
			if tc.rejected {
				if len(events) != 1 || events[0].Type != ecs.EventMutationRejected {
					t.Fatalf("expected one rejection event, got %+v", events)
				}
				evt := events[0].Data.(ecs.MutationRejectedEvent)
				if evt.Caller != stranger || evt.Op != "increase" {
					t.Fatalf("unexpected rejection payload %+v", evt)
				}
				entry := hook.LastEntry()
				if entry == nil || entry.Level != logrus.DebugLevel || entry.Data["caller"] != stranger {
					t.Fatalf("expected debug log for rejection, got %+v", entry)
				}
				return
			}
			if len(events) != 0 {
				t.Fatalf("unexpected events %+v", events)
			}
		})
	}

	_ = ecs.Add(w, sensor, component.TargetAssignRequestComponent, component.TargetAssignRequest{Caller: stranger.Identity(), Target: stranger.Identity()})
	rs.Update(w)
	if fs.Target().Valid() {
		t.Fatalf("stranger should not assign a target")
	}
	if ecs.Has(w, sensor, component.TargetAssignRequestComponent) {
		t.Fatalf("rejected request should still be consumed")
	}
}

func TestPhysicsSystemTracksOccluders(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(physics.NewOcclusionWorld())

	wall := w.CreateEntity()
	_ = ecs.Add(w, wall, component.TransformComponent, component.Transform{Z: 5})
	_ = ecs.Add(w, wall, component.OccluderComponent, component.Occluder{Shape: component.OccluderBox, Width: 4, Depth: 1})
	_ = ecs.Add(w, wall, component.CollisionLayerComponent, component.CollisionLayer{Layer: 3})

	bad := w.CreateEntity()
	_ = ecs.Add(w, bad, component.TransformComponent, component.Transform{})
	_ = ecs.Add(w, bad, component.OccluderComponent, component.Occluder{Shape: component.OccluderCircle})

	ps.Update(w)
	if got := ps.OcclusionWorld().Len(); got != 1 {
		t.Fatalf("expected only the valid wall, got %d shapes", got)
	}

	mask := fov.LayerMaskOf(3)
	hit, ok := ps.OcclusionWorld().Raycast(geom.Vec3{}, geom.Forward, 10, mask)
	if !ok || math.Abs(hit.Z-4.5) > 1e-6 {
		t.Fatalf("expected hit at z=4.5, got %+v (%v)", hit, ok)
	}

	tf, _ := ecs.GetPtr(w, wall, component.TransformComponent)
	tf.Z = 8
	ps.Update(w)
	hit, ok = ps.OcclusionWorld().Raycast(geom.Vec3{}, geom.Forward, 10, mask)
	if !ok || math.Abs(hit.Z-7.5) > 1e-6 {
		t.Fatalf("expected moved wall hit at z=7.5, got %+v (%v)", hit, ok)
	}
	if got := ps.OcclusionWorld().Len(); got != 1 {
		t.Fatalf("moving a wall should not leak shapes, got %d", got)
	}

	w.DestroyEntity(wall)
	ps.Update(w)
	if got := ps.OcclusionWorld().Len(); got != 0 {
		t.Fatalf("destroyed wall should be removed, got %d shapes", got)
	}
}
