package engine

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/physics"
)

// EntityID is a runtime handle, never reused within a World
type EntityID uint64

// Entity is the World's Actor implementation
type Entity struct {
	id    EntityID
	uuid  uuid.UUID
	name  string
	class Class
	body  physics.Body
}

func (e *Entity) ID() EntityID          { return e.id }
func (e *Entity) UUID() uuid.UUID       { return e.uuid }
func (e *Entity) Name() string          { return e.name }
func (e *Entity) Class() Class          { return e.class }
func (e *Entity) Physics() physics.Body { return e.body }

// SetClass replaces the class mask, e.g. when a monster dies into a ragdoll
func (e *Entity) SetClass(c Class) { e.class = c }

// SpawnSpec describes an entity to create
// A zero UUID is replaced by a fresh random one
type SpawnSpec struct {
	UUID  uuid.UUID
	Name  string
	Class Class
	Body  physics.Body
}
