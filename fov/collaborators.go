package fov

import (
	"image/color"

	"github.com/milk9111/fovsystem/geom"
	"golang.org/x/image/colornames"
)

// TargetResolver maps a target handle to its current world position. It reports
// false for handles whose entity no longer exists.
type TargetResolver interface {
	ResolveTarget(id Identity) (geom.Vec3, bool)
}

// Occluder casts a ray from origin along direction (unit length) for at most
// maxDistance, considering only geometry on layers in mask. It returns the first
// hit point.
//
// Implementations must be safe for concurrent read-only queries.
type Occluder interface {
	Raycast(origin, direction geom.Vec3, maxDistance float64, mask LayerMask) (geom.Vec3, bool)
}

// MarkerSink receives the visible/not-visible indicator for a target.
type MarkerSink interface {
	SetMarker(target Identity, visible bool)
}

// LineDrawer draws a transient debug segment.
type LineDrawer interface {
	DrawLine(from, to geom.Vec3, c color.Color)
}

// Env bundles the read-only collaborators an evaluation consults.
type Env struct {
	Targets  TargetResolver
	Occluder Occluder
}

// Effects are the optional side-effect sinks used by Report.
type Effects struct {
	Markers      MarkerSink
	Lines        LineDrawer
	SeenColor    color.Color
	BlockedColor color.Color
}

var (
	DefaultSeenColor    color.Color = colornames.Red
	DefaultBlockedColor color.Color = colornames.White
)

// TargetFunc adapts a function to TargetResolver.
type TargetFunc func(id Identity) (geom.Vec3, bool)

func (f TargetFunc) ResolveTarget(id Identity) (geom.Vec3, bool) {
	return f(id)
}

// OccluderFunc adapts a function to Occluder.
type OccluderFunc func(origin, direction geom.Vec3, maxDistance float64, mask LayerMask) (geom.Vec3, bool)

func (f OccluderFunc) Raycast(origin, direction geom.Vec3, maxDistance float64, mask LayerMask) (geom.Vec3, bool) {
	return f(origin, direction, maxDistance, mask)
}
