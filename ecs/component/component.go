package component

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var registry struct {
	mu    sync.Mutex
	names []string
}

// register hands out the next id and remembers the Go type name for logs.
func register(name string) ComponentID {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.names = append(registry.names, name)
	return ComponentID(len(registry.names))
}

// NameOf returns the type name a component id was registered with.
func NameOf(id ComponentID) string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if id == 0 || int(id) > len(registry.names) {
		return fmt.Sprintf("component#%d", id)
	}
	return registry.names[id-1]
}

func (id ComponentID) String() string {
	return NameOf(id)
}

// ComponentKind identifies the storage for components of type T.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: register(fmt.Sprintf("%T", zero))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is the package-level registration of a component type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) String() string {
	return h.kind.id.String()
}
