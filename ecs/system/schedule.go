package system

import (
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/script"
)

// NewSensorScheduler orders one tick: occluders are synced, pending owner
// requests applied, then every sensor is evaluated. Requests queued by scripts
// during evaluation take effect on the next tick.
func NewSensorScheduler(ps *PhysicsSystem, scripts *script.Runtime) *ecs.Scheduler {
	if ps == nil {
		ps = NewPhysicsSystem(nil)
	}
	return ecs.NewScheduler(
		ps,
		NewFieldOfViewRequestSystem(),
		NewFieldOfViewSystem(ps.OcclusionWorld(), scripts),
	)
}
