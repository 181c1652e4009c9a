package physics

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
)

const wallLayer = 3

func TestOcclusionWorldRaycast(t *testing.T) {
	ow := NewOcclusionWorld()
	if _, err := ow.AddBox(geom.Vec3{Z: 3}, 4, 0.5, wallLayer); err != nil {
		t.Fatalf("AddBox: %v", err)
	}
	if _, err := ow.AddCircle(geom.Vec3{X: 3, Z: 3}, 1, 5); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	diag := geom.Vec3{X: 1, Z: 1}.Normalized()

	cases := []struct {
		name    string
		dir     geom.Vec3
		dist    float64
		mask    fov.LayerMask
		wantHit bool
		wantAt  geom.Vec3
	}{
		{"box_ahead", geom.Forward, 5, fov.LayerMaskOf(wallLayer), true, geom.Vec3{Z: 2.75}},
		{"box_other_mask", geom.Forward, 5, fov.LayerMaskOf(1), false, geom.Vec3{}},
		{"box_too_far", geom.Forward, 2, fov.LayerMaskOf(wallLayer), false, geom.Vec3{}},
		{"empty_mask", geom.Forward, 5, fov.Nothing, false, geom.Vec3{}},
		{"pillar", diag, 10, fov.LayerMaskOf(5), true, diag.Scale(math.Sqrt(18) - 1)},
		{"pillar_everything", diag, 10, fov.Everything, true, diag.Scale(math.Sqrt(18) - 1)},
		{"pillar_wrong_mask", diag, 10, fov.LayerMaskOf(wallLayer), false, geom.Vec3{}},
		{"away_from_walls", geom.Vec3{X: -1}, 10, fov.Everything, false, geom.Vec3{}},
		{"vertical", geom.Up, 10, fov.Everything, false, geom.Vec3{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := ow.Raycast(geom.Vec3{}, c.dir, c.dist, c.mask)
			if ok != c.wantHit {
				t.Fatalf("hit = %v, want %v (point %v)", ok, c.wantHit, hit)
			}
			if ok && !geom.ApproxEqual(hit, c.wantAt, 1e-6) {
				t.Fatalf("hit point = %v, want %v", hit, c.wantAt)
			}
		})
	}
}

func TestOcclusionWorldKeepsHeight(t *testing.T) {
	ow := NewOcclusionWorld()
	if _, err := ow.AddBox(geom.Vec3{Z: 3}, 4, 0.5, wallLayer); err != nil {
		t.Fatalf("AddBox: %v", err)
	}
	target := geom.Vec3{Y: 2, Z: 5}
	dist := target.Magnitude()
	hit, ok := ow.Raycast(geom.Vec3{}, target.Scale(1/dist), dist, fov.Everything)
	if !ok {
		t.Fatalf("expected hit")
	}
	if !geom.ApproxEqual(hit, geom.Vec3{Y: 1.1, Z: 2.75}, 1e-6) {
		t.Fatalf("hit = %v, want interpolated height", hit)
	}
}

func TestOcclusionWorldRemove(t *testing.T) {
	ow := NewOcclusionWorld()
	id, err := ow.AddSegment(geom.Vec3{X: -5, Z: 4}, geom.Vec3{X: 5, Z: 4}, 0.1, wallLayer)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if ow.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ow.Len())
	}
	if _, ok := ow.Raycast(geom.Vec3{}, geom.Forward, 10, fov.Everything); !ok {
		t.Fatalf("segment wall should block")
	}

	ow.Remove(id)
	ow.Remove(id)
	if ow.Len() != 0 {
		t.Fatalf("Len = %d after remove, want 0", ow.Len())
	}
	if _, ok := ow.Raycast(geom.Vec3{}, geom.Forward, 10, fov.Everything); ok {
		t.Fatalf("removed wall should not block")
	}
}

func TestOcclusionWorldRejectsBadShapes(t *testing.T) {
	ow := NewOcclusionWorld()
	cases := []struct {
		name string
		add  func() error
		want error
	}{
		{"flat_box", func() error { _, err := ow.AddBox(geom.Vec3{}, 0, 1, 0); return err }, ErrInvalidShape},
		{"no_radius", func() error { _, err := ow.AddCircle(geom.Vec3{}, 0, 0); return err }, ErrInvalidShape},
		{"point_segment", func() error { _, err := ow.AddSegment(geom.Vec3{X: 1}, geom.Vec3{X: 1, Y: 3}, 1, 0); return err }, ErrInvalidShape},
		{"negative_layer", func() error { _, err := ow.AddBox(geom.Vec3{}, 1, 1, -1); return err }, ErrInvalidLayer},
		{"layer_too_high", func() error { _, err := ow.AddBox(geom.Vec3{}, 1, 1, fov.MaxLayers); return err }, ErrInvalidLayer},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.add(); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
	if ow.Len() != 0 {
		t.Fatalf("rejected shapes should not be stored")
	}
}

func TestSensorAgainstOcclusionWorld(t *testing.T) {
	const (
		owner  fov.Identity = 7
		target fov.Identity = 8
	)
	ow := NewOcclusionWorld()
	wallID, err := ow.AddBox(geom.Vec3{Z: 3}, 2, 0.2, wallLayer)
	if err != nil {
		t.Fatalf("AddBox: %v", err)
	}

	s := fov.New(owner, fov.Config{ViewRadius: 10, ViewAngle: 90, OcclusionMask: fov.LayerMaskOf(wallLayer), Target: target})
	env := fov.Env{
		Targets: fov.TargetFunc(func(id fov.Identity) (geom.Vec3, bool) {
			return geom.Vec3{Z: 5}, id == target
		}),
		Occluder: ow,
	}
	pose := fov.PoseFromYaw(geom.Vec3{}, 0)

	res := s.Evaluate(pose, env)
	if res.Outcome != fov.NotVisible || res.Reason != fov.Occluded {
		t.Fatalf("expected occluded, got %+v", res)
	}
	if math.Abs(res.HitPoint.Z-2.9) > 1e-6 {
		t.Fatalf("hit point = %v", res.HitPoint)
	}

	ow.Remove(wallID)
	if res := s.Evaluate(pose, env); res.Outcome != fov.Visible {
		t.Fatalf("expected visible once the wall is gone, got %+v", res)
	}
}

func TestOcclusionWorldConcurrentQueries(t *testing.T) {
	ow := NewOcclusionWorld()
	if _, err := ow.AddBox(geom.Vec3{Z: 3}, 4, 0.5, wallLayer); err != nil {
		t.Fatalf("AddBox: %v", err)
	}

	var wg sync.WaitGroup
	misses := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, ok := ow.Raycast(geom.Vec3{}, geom.Forward, 5, fov.Everything); !ok {
					misses <- i
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(misses)
	for i := range misses {
		t.Fatalf("worker %d missed the wall", i)
	}
}
