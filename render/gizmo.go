// Package render draws sensors, debug lines, markers and occluders top-down
// with ebiten.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"golang.org/x/image/colornames"
)

const (
	gizmoArcSegments = 32
	markerRadius     = 0.35
	sensorRadius     = 0.25
)

var (
	GizmoColor  color.Color = color.NRGBA{R: 255, G: 255, B: 0, A: 160}
	SensorColor color.Color = colornames.Lightskyblue
)

// DrawGizmo strokes the range circle, both cone edges and the arc between them.
func DrawGizmo(screen *ebiten.Image, g fov.Gizmo, cam Camera, clr color.Color) {
	if screen == nil {
		return
	}
	cx, cy := cam.ToScreen(g.Center)
	vector.StrokeCircle(screen, cx, cy, cam.Length(g.Radius), 1, clr, true)
	strokeSegment(screen, g.EdgeA.From, g.EdgeA.To, cam, 1, clr)
	strokeSegment(screen, g.EdgeB.From, g.EdgeB.To, cam, 1, clr)

	arc := g.Sector(gizmoArcSegments)
	// Skip the center points at both ends.
	for i := 1; i+2 < len(arc); i++ {
		strokeSegment(screen, arc[i], arc[i+1], cam, 2, clr)
	}
}

// DrawLines strokes the debug lines an entity emitted this tick.
func DrawLines(screen *ebiten.Image, lr component.LineRender, cam Camera) {
	width := lr.Width
	if width <= 0 {
		width = 1
	}
	for _, l := range lr.Lines {
		x1, y1 := cam.ToScreen(l.From)
		x2, y2 := cam.ToScreen(l.To)
		vector.StrokeLine(screen, x1, y1, x2, y2, width, l.Color, lr.AntiAlias)
	}
}

// DrawWorld draws every sensor, target and debug line in w.
func DrawWorld(screen *ebiten.Image, w *ecs.World, cam Camera) {
	if screen == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.FieldOfViewComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, fc *component.FieldOfView, t *component.Transform) {
		if fc.Sensor == nil {
			return
		}
		if fc.Debug {
			DrawGizmo(screen, fc.Sensor.DebugVisualize(t.Pose()), cam, GizmoColor)
		}
		x, y := cam.ToScreen(t.Position())
		vector.FillCircle(screen, x, y, cam.Length(sensorRadius), SensorColor, true)
		strokeSegment(screen, t.Position(), t.Position().Add(t.Forward().Scale(sensorRadius*2)), cam, 2, SensorColor)
	})

	ecs.ForEach(w, component.LineRenderComponent.Kind(), func(e ecs.Entity, lr *component.LineRender) {
		DrawLines(screen, *lr, cam)
	})

	ecs.ForEach2(w, component.VisibilityMarkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.VisibilityMarker, t *component.Transform) {
		clr := m.Color
		if clr == nil {
			clr = fov.DefaultBlockedColor
		}
		x, y := cam.ToScreen(t.Position())
		vector.FillCircle(screen, x, y, cam.Length(markerRadius), clr, true)
	})
}

func strokeSegment(screen *ebiten.Image, a, b geom.Vec3, cam Camera, width float32, clr color.Color) {
	x1, y1 := cam.ToScreen(a)
	x2, y2 := cam.ToScreen(b)
	vector.StrokeLine(screen, x1, y1, x2, y2, width, clr, true)
}
