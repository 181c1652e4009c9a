package ecs

import "github.com/milk9111/fovsystem/ecs/component"

// Components are stored behind pointers so ForEach callbacks can edit them in
// place. Get returns a copy.

func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	v := value
	return w.AddComponent(e, handle.Kind().ID(), &v)
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind().ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind().ID())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	ptr, ok := GetPtr(w, e, handle)
	if !ok {
		return zero, false
	}
	return *ptr, true
}

// GetPtr returns the stored component for in-place edits.
func GetPtr[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.GetComponent(e, handle.Kind().ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}

// ForEach visits every live entity holding the component.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	store, ok := w.stores[kind.ID()]
	if !ok {
		return
	}
	for _, e := range store.Entities() {
		value, ok := store.Get(e).(*T)
		if !ok || !w.IsAlive(e) {
			continue
		}
		fn(e, value)
	}
}

// ForEach2 visits entities holding both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, okA := w.stores[ka.ID()]
	sb, okB := w.stores[kb.ID()]
	if !okA || !okB {
		return
	}
	for _, e := range IntersectEntities(sa, sb) {
		a, okA := sa.Get(e).(*A)
		b, okB := sb.Get(e).(*B)
		if !okA || !okB || !w.IsAlive(e) {
			continue
		}
		fn(e, a, b)
	}
}
