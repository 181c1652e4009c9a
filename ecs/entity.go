package ecs

import (
	"strconv"

	"github.com/milk9111/fovsystem/fov"
)

// Entity is a generational handle. A handle whose entity was destroyed stays
// invalid even after its id is reused.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Identity converts the handle into the identity used by sensors.
func (e Entity) Identity() fov.Identity {
	return fov.Identity(e)
}

// EntityOf converts a sensor identity back into a handle.
func EntityOf(id fov.Identity) Entity {
	return Entity(id)
}
