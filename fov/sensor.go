// Package fov implements a cone-shaped field-of-view sensor: a target is visible
// when it lies within the view radius, inside the view cone around the sensor's
// forward direction, and no geometry on the occlusion layers blocks the segment
// between them.
package fov

import (
	"github.com/milk9111/fovsystem/common"
	"github.com/milk9111/fovsystem/geom"
)

// Sensor holds the configuration of one field of view. Only the owner may change
// radius, angle or target; the occlusion mask is fixed at construction.
//
// A Sensor keeps no state between evaluations, so Evaluate is a pure function of
// the pose, the target position and the occluders.
type Sensor struct {
	owner  Identity
	radius float64
	angle  float64
	target Identity
	mask   LayerMask
}

// New creates a sensor bound to owner. Negative radius or angle values are
// clamped to zero and the angle is capped at a full turn.
func New(owner Identity, cfg Config) *Sensor {
	return &Sensor{
		owner:  owner,
		radius: clampRadius(cfg.ViewRadius),
		angle:  clampAngle(cfg.ViewAngle),
		target: cfg.Target,
		mask:   cfg.OcclusionMask,
	}
}

func (s *Sensor) Owner() Identity {
	if s == nil {
		return NoIdentity
	}
	return s.owner
}

func (s *Sensor) ViewRadius() float64 {
	if s == nil {
		return 0
	}
	return s.radius
}

// ViewAngle returns the full cone width in degrees.
func (s *Sensor) ViewAngle() float64 {
	if s == nil {
		return 0
	}
	return s.angle
}

func (s *Sensor) HalfAngle() float64 {
	return s.ViewAngle() / 2
}

func (s *Sensor) Target() Identity {
	if s == nil {
		return NoIdentity
	}
	return s.target
}

func (s *Sensor) OcclusionMask() LayerMask {
	if s == nil {
		return Nothing
	}
	return s.mask
}

// Config returns a snapshot of the current configuration.
func (s *Sensor) Config() Config {
	if s == nil {
		return Config{}
	}
	return Config{
		ViewRadius:    s.radius,
		ViewAngle:     s.angle,
		OcclusionMask: s.mask,
		Target:        s.target,
	}
}

// Evaluate tests the current target against the sensor placed at pose.
//
// Range is checked first, then the cone, then occlusion. A target exactly on
// the radius is in range and a target exactly on the half angle is inside the
// cone. Without a resolvable target the result is Skipped.
func (s *Sensor) Evaluate(pose Pose, env Env) Result {
	if s == nil || !s.target.Valid() || env.Targets == nil {
		return Result{Outcome: Skipped}
	}
	targetPos, ok := env.Targets.ResolveTarget(s.target)
	if !ok {
		return Result{Outcome: Skipped}
	}

	res := Result{Target: s.target, TargetPosition: targetPos}
	dir := targetPos.Sub(pose.Position)
	res.Distance = dir.Magnitude()
	if res.Distance > s.radius {
		res.Outcome = NotVisible
		res.Reason = OutOfRange
		return res
	}

	res.Angle = geom.Angle(pose.Forward, dir)
	if res.Angle > s.HalfAngle() {
		res.Outcome = NotVisible
		res.Reason = OutsideCone
		return res
	}

	if env.Occluder != nil && res.Distance > 0 {
		if hit, blocked := env.Occluder.Raycast(pose.Position, dir.Scale(1/res.Distance), res.Distance, s.mask); blocked {
			res.Outcome = NotVisible
			res.Reason = Occluded
			res.HitPoint = hit
			return res
		}
	}

	res.Outcome = Visible
	return res
}

// EvaluateFunc runs Evaluate and calls onVisible or onNotVisible. Neither is
// called when the result is Skipped. Nil callbacks are ignored.
func (s *Sensor) EvaluateFunc(pose Pose, env Env, onVisible, onNotVisible func()) Result {
	res := s.Evaluate(pose, env)
	dispatch(res, onVisible, onNotVisible)
	return res
}

// Report evaluates and applies the observable side effects before dispatching:
// a visible target gets a line from the origin and its marker set, a target
// outside the cone gets its marker cleared, and an occluded target gets a line
// to the hit point. Out-of-range targets are left untouched.
func (s *Sensor) Report(pose Pose, env Env, fx Effects, onVisible, onNotVisible func()) Result {
	res := s.Evaluate(pose, env)
	fx.apply(pose, res)
	dispatch(res, onVisible, onNotVisible)
	return res
}

// IncreaseFieldOfView grows radius and angle when caller is the owner. It
// reports whether the change was applied.
func (s *Sensor) IncreaseFieldOfView(caller Identity, radius, angle float64) bool {
	if s == nil || caller != s.owner {
		return false
	}
	s.radius = clampRadius(s.radius + radius)
	s.angle = clampAngle(s.angle + angle)
	return true
}

// DecreaseFieldOfView shrinks radius and angle when caller is the owner. Values
// stop at zero.
func (s *Sensor) DecreaseFieldOfView(caller Identity, radius, angle float64) bool {
	if s == nil || caller != s.owner {
		return false
	}
	s.radius = clampRadius(s.radius - radius)
	s.angle = clampAngle(s.angle - angle)
	return true
}

// SetTarget replaces the target when caller is the owner. NoIdentity clears it.
func (s *Sensor) SetTarget(caller Identity, target Identity) bool {
	if s == nil || caller != s.owner {
		return false
	}
	s.target = target
	return true
}

func dispatch(res Result, onVisible, onNotVisible func()) {
	switch res.Outcome {
	case Visible:
		if onVisible != nil {
			onVisible()
		}
	case NotVisible:
		if onNotVisible != nil {
			onNotVisible()
		}
	}
}

func (fx Effects) apply(pose Pose, res Result) {
	seen := fx.SeenColor
	if seen == nil {
		seen = DefaultSeenColor
	}
	blocked := fx.BlockedColor
	if blocked == nil {
		blocked = DefaultBlockedColor
	}

	switch {
	case res.Outcome == Visible:
		if fx.Lines != nil {
			fx.Lines.DrawLine(pose.Position, res.TargetPosition, seen)
		}
		if fx.Markers != nil {
			fx.Markers.SetMarker(res.Target, true)
		}
	case res.Reason == OutsideCone:
		if fx.Markers != nil {
			fx.Markers.SetMarker(res.Target, false)
		}
	case res.Reason == Occluded:
		if fx.Lines != nil {
			fx.Lines.DrawLine(pose.Position, res.HitPoint, blocked)
		}
	}
}

func clampRadius(r float64) float64 {
	if r < 0 {
		return 0
	}
	return r
}

func clampAngle(a float64) float64 {
	return common.Clamp(a, 0, common.MaxViewAngle)
}
