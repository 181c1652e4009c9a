// Package overlay exports sensor gizmos as GeoJSON so a scenario can be
// inspected in any map viewer. World X maps to longitude-like X and world Z to
// Y; heights are dropped.
package overlay

import (
	"math"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// DefaultSegments is the arc resolution used when callers pass zero.
const DefaultSegments = 32

const (
	KindSector = "sector"
	KindEdge   = "edge"
	KindRange  = "range"
	KindSight  = "sight"
	KindTarget = "target"
	KindWall   = "wall"
)

func point(v geom.Vec3) orb.Point {
	return orb.Point{v.X, v.Z}
}

func lineString(pts ...geom.Vec3) orb.LineString {
	ls := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		ls = append(ls, point(p))
	}
	return ls
}

func ring(pts []geom.Vec3) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, point(p))
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// SectorPolygon is the cone of g as a closed polygon.
func SectorPolygon(g fov.Gizmo, segments int) orb.Polygon {
	if segments <= 0 {
		segments = DefaultSegments
	}
	return orb.Polygon{ring(g.Sector(segments))}
}

// GizmoFeatures turns a gizmo and the verdict taken with it into features:
// the sector, both edges, the range circle and, when there is a verdict, the
// sight line and the target point.
func GizmoFeatures(name string, g fov.Gizmo, res fov.Result, segments int) []*geojson.Feature {
	if segments <= 0 {
		segments = DefaultSegments
	}

	sector := SectorPolygon(g, segments)
	sf := geojson.NewFeature(sector)
	sf.Properties["kind"] = KindSector
	sf.Properties["sensor"] = name
	sf.Properties["radius"] = g.Radius
	sf.Properties["angle"] = g.Angle
	sf.Properties["area"] = math.Abs(planar.Area(sector))

	out := []*geojson.Feature{sf}
	for _, edge := range []fov.Segment{g.EdgeA, g.EdgeB} {
		f := geojson.NewFeature(lineString(edge.From, edge.To))
		f.Properties["kind"] = KindEdge
		f.Properties["sensor"] = name
		out = append(out, f)
	}

	rf := geojson.NewFeature(orb.LineString(ring(g.Outline(segments))))
	rf.Properties["kind"] = KindRange
	rf.Properties["sensor"] = name
	out = append(out, rf)

	if res.Outcome == fov.Skipped {
		return out
	}

	tf := geojson.NewFeature(point(res.TargetPosition))
	tf.Properties["kind"] = KindTarget
	tf.Properties["sensor"] = name
	tf.Properties["outcome"] = res.Outcome.String()
	tf.Properties["reason"] = res.Reason.String()
	tf.Properties["distance"] = res.Distance
	out = append(out, tf)

	switch {
	case res.Outcome == fov.Visible:
		out = append(out, sightFeature(name, g.Center, res.TargetPosition, res))
	case res.Reason == fov.Occluded:
		out = append(out, sightFeature(name, g.Center, res.HitPoint, res))
	}
	return out
}

func sightFeature(name string, from, to geom.Vec3, res fov.Result) *geojson.Feature {
	f := geojson.NewFeature(lineString(from, to))
	f.Properties["kind"] = KindSight
	f.Properties["sensor"] = name
	f.Properties["outcome"] = res.Outcome.String()
	return f
}

// WallFeature describes an occluder outline. Circles are approximated with
// segments points.
func WallFeature(name string, t component.Transform, occ component.Occluder, segments int) *geojson.Feature {
	if segments <= 0 {
		segments = DefaultSegments
	}
	c := t.Position()

	var g orb.Geometry
	switch occ.Shape {
	case component.OccluderCircle:
		pts := fov.Gizmo{Center: c, Radius: occ.Radius}.Outline(segments)
		g = orb.Polygon{ring(pts)}
	case component.OccluderSegment:
		g = lineString(c, occ.End)
	default:
		hw, hd := occ.Width/2, occ.Depth/2
		g = orb.Polygon{ring([]geom.Vec3{
			{X: c.X - hw, Z: c.Z - hd},
			{X: c.X + hw, Z: c.Z - hd},
			{X: c.X + hw, Z: c.Z + hd},
			{X: c.X - hw, Z: c.Z + hd},
		})}
	}

	f := geojson.NewFeature(g)
	f.Properties["kind"] = KindWall
	f.Properties["name"] = name
	f.Properties["shape"] = string(occ.Shape)
	return f
}

// Collect gathers every sensor gizmo and wall in w. Sensor verdicts come from
// FieldOfView.Last, so run a tick first to include sight lines.
func Collect(w *ecs.World, segments int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if w == nil {
		return fc
	}

	ecs.ForEach2(w, component.FieldOfViewComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, fcomp *component.FieldOfView, t *component.Transform) {
		if fcomp.Sensor == nil {
			return
		}
		g := fcomp.Sensor.DebugVisualize(t.Pose())
		for _, f := range GizmoFeatures(nameOf(w, e), g, fcomp.Last, segments) {
			fc.Append(f)
		}
	})

	ecs.ForEach2(w, component.OccluderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, occ *component.Occluder, t *component.Transform) {
		fc.Append(WallFeature(nameOf(w, e), *t, *occ, segments))
	})
	return fc
}

func nameOf(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent); ok && n.Value != "" {
		return n.Value
	}
	return e.String()
}
