package ecs

import "github.com/milk9111/fovsystem/fov"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventTargetVisible    = "fov.visible"
	EventTargetNotVisible = "fov.not_visible"
	EventMutationRejected = "fov.mutation_rejected"
)

// VisibilityEvent is emitted each tick a sensor reaches a verdict.
type VisibilityEvent struct {
	Sensor Entity
	Result fov.Result
}

// MutationRejectedEvent is emitted when a non-owner tries to reconfigure a sensor.
type MutationRejectedEvent struct {
	Sensor Entity
	Caller Entity
	Op     string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
