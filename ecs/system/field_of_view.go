package system

import (
	"image/color"
	"math"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"github.com/milk9111/fovsystem/script"
	"github.com/sirupsen/logrus"
)

// FieldOfViewSystem evaluates every sensor once per tick. It rewrites the
// sensor's debug lines, flips the target's marker, queues a visibility event
// and hands the verdict to the sensor script, if any.
type FieldOfViewSystem struct {
	occluder fov.Occluder
	scripts  *script.Runtime
	log      *logrus.Entry
}

// NewFieldOfViewSystem builds the system. A nil occluder means nothing blocks
// line of sight; a nil runtime disables scripts.
func NewFieldOfViewSystem(occluder fov.Occluder, scripts *script.Runtime) *FieldOfViewSystem {
	return &FieldOfViewSystem{
		occluder: occluder,
		scripts:  scripts,
		log:      logrus.WithField("system", "field_of_view"),
	}
}

func (s *FieldOfViewSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	env := fov.Env{Targets: worldTargets{w: w}, Occluder: s.occluder}
	ecs.ForEach2(w, component.FieldOfViewComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, fc *component.FieldOfView, t *component.Transform) {
		if fc.Sensor == nil {
			return
		}

		colors, _ := ecs.Get(w, e, component.SensorColorsComponent)
		seen := colorOr(colors.Seen, fov.DefaultSeenColor)
		blocked := colorOr(colors.Blocked, fov.DefaultBlockedColor)

		lines, _ := ecs.GetPtr(w, e, component.LineRenderComponent)
		if lines != nil {
			lines.Lines = lines.Lines[:0]
		}

		fx := fov.Effects{
			Markers:      worldMarkers{w: w, seen: seen, blocked: blocked},
			SeenColor:    seen,
			BlockedColor: blocked,
		}
		if lines != nil {
			fx.Lines = lineSink{lr: lines}
		}

		res := fc.Sensor.Report(t.Pose(), env, fx, nil, nil)
		fc.Last = res
		switch res.Outcome {
		case fov.Visible:
			w.Events().Push(ecs.Event{Type: ecs.EventTargetVisible, Data: ecs.VisibilityEvent{Sensor: e, Result: res}})
		case fov.NotVisible:
			w.Events().Push(ecs.Event{Type: ecs.EventTargetNotVisible, Data: ecs.VisibilityEvent{Sensor: e, Result: res}})
		}

		s.runScript(w, e, fc.Sensor, res)
	})
}

func (s *FieldOfViewSystem) runScript(w *ecs.World, e ecs.Entity, sensor *fov.Sensor, res fov.Result) {
	if s.scripts == nil || res.Outcome == fov.Skipped {
		return
	}
	sc, ok := ecs.Get(w, e, component.SensorScriptComponent)
	if !ok || sc.Path == "" {
		return
	}

	action, err := s.scripts.Dispatch(sc.Path, script.Verdict{
		Sensor:    uint64(e),
		Target:    uint64(res.Target),
		Outcome:   res.Outcome,
		Reason:    res.Reason,
		Distance:  res.Distance,
		Angle:     res.Angle,
		Radius:    sensor.ViewRadius(),
		ViewAngle: sensor.ViewAngle(),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"sensor": e,
			"script": sc.Path,
		}).WithError(err).Warn("sensor script failed")
		return
	}
	if action.Empty() {
		return
	}

	// Scripts act on behalf of the holder entity; the request system still
	// checks that identity against the sensor owner.
	caller := e.Identity()
	if action.Reach != 0 || action.Widen != 0 {
		req := component.FieldOfViewAdjustRequest{Caller: caller, Mode: component.AdjustIncrease, Radius: action.Reach, Angle: action.Widen}
		if action.Reach <= 0 && action.Widen <= 0 {
			req.Mode = component.AdjustDecrease
			req.Radius = math.Abs(action.Reach)
			req.Angle = math.Abs(action.Widen)
		}
		_ = ecs.Add(w, e, component.FieldOfViewAdjustRequestComponent, req)
	}
	if action.Forget {
		_ = ecs.Add(w, e, component.TargetAssignRequestComponent, component.TargetAssignRequest{Caller: caller})
	}
}

type worldTargets struct {
	w *ecs.World
}

func (wt worldTargets) ResolveTarget(id fov.Identity) (geom.Vec3, bool) {
	e := ecs.EntityOf(id)
	if !wt.w.IsAlive(e) {
		return geom.Vec3{}, false
	}
	t, ok := ecs.Get(wt.w, e, component.TransformComponent)
	if !ok {
		return geom.Vec3{}, false
	}
	return t.Position(), true
}

type worldMarkers struct {
	w       *ecs.World
	seen    color.Color
	blocked color.Color
}

func (wm worldMarkers) SetMarker(target fov.Identity, visible bool) {
	marker, ok := ecs.GetPtr(wm.w, ecs.EntityOf(target), component.VisibilityMarkerComponent)
	if !ok {
		return
	}
	marker.Visible = visible
	marker.Color = wm.blocked
	if visible {
		marker.Color = wm.seen
	}
}

type lineSink struct {
	lr *component.LineRender
}

func (ls lineSink) DrawLine(from, to geom.Vec3, c color.Color) {
	ls.lr.Lines = append(ls.lr.Lines, component.DebugLine{From: from, To: to, Color: c})
}

func colorOr(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}
