package overlay

import (
	"math"
	"strings"
	"testing"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

func kinds(features []*geojson.Feature) map[string]int {
	out := make(map[string]int)
	for _, f := range features {
		out[f.Properties.MustString("kind")]++
	}
	return out
}

func TestSectorPolygonArea(t *testing.T) {
	s := fov.New(1, fov.Config{ViewRadius: 10, ViewAngle: 90})
	g := s.DebugVisualize(fov.PoseFromYaw(geom.Vec3{X: 3, Z: -2}, 45))

	poly := SectorPolygon(g, 128)
	got := math.Abs(planar.Area(poly))
	want := g.SectorArea()
	if math.Abs(got-want)/want > 0.01 {
		t.Fatalf("sector area = %v, want about %v", got, want)
	}
	if !poly[0].Closed() {
		t.Fatalf("sector ring should be closed")
	}
}

func TestGizmoFeatures(t *testing.T) {
	s := fov.New(1, fov.Config{ViewRadius: 10, ViewAngle: 90})
	pose := fov.PoseFromYaw(geom.Vec3{}, 0)
	g := s.DebugVisualize(pose)

	cases := []struct {
		name      string
		res       fov.Result
		wantSight int
		wantEnd   orb.Point
	}{
		{
			name: "skipped",
			res:  fov.Result{Outcome: fov.Skipped},
		},
		{
			name:      "visible",
			res:       fov.Result{Outcome: fov.Visible, TargetPosition: geom.Vec3{Z: 5}, Distance: 5},
			wantSight: 1,
			wantEnd:   orb.Point{0, 5},
		},
		{
			name:      "occluded",
			res:       fov.Result{Outcome: fov.NotVisible, Reason: fov.Occluded, TargetPosition: geom.Vec3{Z: 5}, HitPoint: geom.Vec3{Z: 2}},
			wantSight: 1,
			wantEnd:   orb.Point{0, 2},
		},
		{
			name: "outside cone",
			res:  fov.Result{Outcome: fov.NotVisible, Reason: fov.OutsideCone, TargetPosition: geom.Vec3{Z: -5}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			features := GizmoFeatures("guard", g, tc.res, 16)
			k := kinds(features)
			if k[KindSector] != 1 || k[KindEdge] != 2 || k[KindRange] != 1 {
				t.Fatalf("missing gizmo features: %v", k)
			}
			if k[KindSight] != tc.wantSight {
				t.Fatalf("sight lines = %d, want %d", k[KindSight], tc.wantSight)
			}
			wantTargets := 1
			if tc.res.Outcome == fov.Skipped {
				wantTargets = 0
			}
			if k[KindTarget] != wantTargets {
				t.Fatalf("target points = %d, want %d", k[KindTarget], wantTargets)
			}
			for _, f := range features {
				if f.Properties.MustString("kind") != KindSight {
					continue
				}
				ls := f.Geometry.(orb.LineString)
				if end := ls[len(ls)-1]; planar.Distance(end, tc.wantEnd) > 1e-9 {
					t.Fatalf("sight line ends at %v, want %v", end, tc.wantEnd)
				}
			}
		})
	}
}

func TestCollect(t *testing.T) {
	w := ecs.NewWorld()
	target := w.CreateEntity()
	_ = ecs.Add(w, target, component.TransformComponent, component.Transform{Z: 4})

	sensor := w.CreateEntity()
	_ = ecs.Add(w, sensor, component.TransformComponent, component.Transform{})
	_ = ecs.Add(w, sensor, component.NameComponent, component.Name{Value: "north_guard"})
	_ = ecs.Add(w, sensor, component.FieldOfViewComponent, component.FieldOfView{
		Sensor: fov.New(sensor.Identity(), fov.Config{ViewRadius: 8, ViewAngle: 60, Target: target.Identity()}),
		Last:   fov.Result{Outcome: fov.Visible, Target: target.Identity(), TargetPosition: geom.Vec3{Z: 4}},
	})

	for i, occ := range []component.Occluder{
		{Shape: component.OccluderBox, Width: 2, Depth: 1},
		{Shape: component.OccluderCircle, Radius: 1},
		{Shape: component.OccluderSegment, End: geom.Vec3{X: 3, Z: 3}},
	} {
		e := w.CreateEntity()
		_ = ecs.Add(w, e, component.TransformComponent, component.Transform{X: float64(i * 5)})
		_ = ecs.Add(w, e, component.OccluderComponent, occ)
	}

	fc := Collect(w, 12)
	k := kinds(fc.Features)
	if k[KindWall] != 3 || k[KindSector] != 1 || k[KindSight] != 1 {
		t.Fatalf("unexpected feature kinds %v", k)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"north_guard"`) {
		t.Fatalf("expected sensor name in output: %s", data)
	}

	var box *geojson.Feature
	for _, f := range fc.Features {
		if f.Properties.MustString("kind") == KindWall && f.Properties.MustString("shape") == "box" {
			box = f
		}
	}
	if box == nil {
		t.Fatalf("box wall missing")
	}
	if a := math.Abs(planar.Area(box.Geometry)); math.Abs(a-2) > 1e-9 {
		t.Fatalf("box area = %v, want 2", a)
	}
}
