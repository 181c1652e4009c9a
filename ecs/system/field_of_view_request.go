package system

import (
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/sirupsen/logrus"
)

// FieldOfViewRequestSystem applies pending adjust and target requests to the
// sensor on the same entity. Requests from anyone but the sensor owner are
// dropped and reported as MutationRejected events.
type FieldOfViewRequestSystem struct {
	Log *logrus.Entry
}

func NewFieldOfViewRequestSystem() *FieldOfViewRequestSystem {
	return &FieldOfViewRequestSystem{Log: logrus.WithField("system", "field_of_view_request")}
}

func (s *FieldOfViewRequestSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var done []ecs.Entity
	ecs.ForEach(w, component.FieldOfViewAdjustRequestComponent.Kind(), func(e ecs.Entity, req *component.FieldOfViewAdjustRequest) {
		done = append(done, e)
		fc, ok := ecs.GetPtr(w, e, component.FieldOfViewComponent)
		if !ok || fc.Sensor == nil {
			return
		}

		var applied bool
		op := "increase"
		if req.Mode == component.AdjustDecrease {
			op = "decrease"
			applied = fc.Sensor.DecreaseFieldOfView(req.Caller, req.Radius, req.Angle)
		} else {
			applied = fc.Sensor.IncreaseFieldOfView(req.Caller, req.Radius, req.Angle)
		}
		if !applied {
			s.reject(w, e, ecs.EntityOf(req.Caller), op)
			return
		}
		s.logger().WithFields(logrus.Fields{
			"sensor": e,
			"op":     op,
			"radius": fc.Sensor.ViewRadius(),
			"angle":  fc.Sensor.ViewAngle(),
		}).Debug("field of view adjusted")
	})
	for _, e := range done {
		ecs.Remove(w, e, component.FieldOfViewAdjustRequestComponent)
	}

	done = done[:0]
	ecs.ForEach(w, component.TargetAssignRequestComponent.Kind(), func(e ecs.Entity, req *component.TargetAssignRequest) {
		done = append(done, e)
		fc, ok := ecs.GetPtr(w, e, component.FieldOfViewComponent)
		if !ok || fc.Sensor == nil {
			return
		}
		if !fc.Sensor.SetTarget(req.Caller, req.Target) {
			s.reject(w, e, ecs.EntityOf(req.Caller), "set_target")
			return
		}
		s.logger().WithFields(logrus.Fields{
			"sensor": e,
			"target": ecs.EntityOf(req.Target),
		}).Debug("target assigned")
	})
	for _, e := range done {
		ecs.Remove(w, e, component.TargetAssignRequestComponent)
	}
}

func (s *FieldOfViewRequestSystem) reject(w *ecs.World, sensor, caller ecs.Entity, op string) {
	s.logger().WithFields(logrus.Fields{
		"sensor": sensor,
		"caller": caller,
		"op":     op,
	}).Debug("mutation rejected: caller is not the owner")
	w.Events().Push(ecs.Event{
		Type: ecs.EventMutationRejected,
		Data: ecs.MutationRejectedEvent{Sensor: sensor, Caller: caller, Op: op},
	})
}

func (s *FieldOfViewRequestSystem) logger() *logrus.Entry {
	if s.Log == nil {
		s.Log = logrus.WithField("system", "field_of_view_request")
	}
	return s.Log
}
