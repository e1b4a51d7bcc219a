package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/vmath"
)

// Integrator is implemented by bodies the World steps itself
type Integrator interface {
	Integrate(dt time.Duration)
}

// World owns entities, their bodies and the broadphase index
// Not safe for concurrent use; the simulation step is single threaded
type World struct {
	nextID   EntityID
	entities map[EntityID]*Entity
	byUUID   map[uuid.UUID]*Entity
	order    []EntityID // spawn order, keeps iteration deterministic

	grid      *SpatialGrid
	gridDirty bool
}

// NewWorld creates an empty world with a broadphase of the given cell size
func NewWorld(cellSize float64) *World {
	return &World{
		nextID:   1,
		entities: make(map[EntityID]*Entity),
		byUUID:   make(map[uuid.UUID]*Entity),
		grid:     NewSpatialGrid(cellSize),
	}
}

// Spawn creates an entity; a spec UUID already in use gets a fresh one
func (w *World) Spawn(spec SpawnSpec) *Entity {
	id := spec.UUID
	if id == uuid.Nil {
		id = uuid.New()
	} else if _, taken := w.byUUID[id]; taken {
		id = uuid.New()
	}

	e := &Entity{
		id:    w.nextID,
		uuid:  id,
		name:  spec.Name,
		class: spec.Class,
		body:  spec.Body,
	}
	w.nextID++

	w.entities[e.id] = e
	w.byUUID[e.uuid] = e
	w.order = append(w.order, e.id)
	if e.body != nil {
		w.grid.Add(e.id, e.body.AbsBounds())
	}
	return e
}

// Destroy removes an entity, references held elsewhere by UUID simply stop resolving
func (w *World) Destroy(id EntityID) bool {
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	delete(w.entities, id)
	delete(w.byUUID, e.uuid)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	// Body may have moved since the last rebuild, a full rebuild is the only exact removal
	w.gridDirty = true
	return true
}

// Clear destroys every entity, ids keep increasing afterwards
func (w *World) Clear() {
	clear(w.entities)
	clear(w.byUUID)
	w.order = w.order[:0]
	w.grid.Clear()
	w.gridDirty = false
}

// Get returns a live entity by runtime id
func (w *World) Get(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Lookup resolves a stable identity to a live actor
func (w *World) Lookup(id uuid.UUID) (Actor, bool) {
	e, ok := w.byUUID[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// FindByName returns the first live entity with the given name in spawn order
func (w *World) FindByName(name string) (*Entity, bool) {
	for _, id := range w.order {
		if e := w.entities[id]; e.name == name {
			return e, true
		}
	}
	return nil, false
}

// Entities returns live entities in spawn order
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

func (w *World) Len() int { return len(w.entities) }

// ClipActors appends to dst every actor whose body bounds intersect b
func (w *World) ClipActors(b vmath.Bounds, dst []Actor) []Actor {
	if w.gridDirty {
		w.RebuildIndex()
	}
	w.grid.Query(b, func(id EntityID) {
		e, ok := w.entities[id]
		if !ok || e.body == nil {
			return
		}
		if e.body.AbsBounds().Intersects(b) {
			dst = append(dst, e)
		}
	})
	return dst
}

// RebuildIndex reinserts every body at its current bounds
func (w *World) RebuildIndex() {
	w.grid.Clear()
	for _, id := range w.order {
		if e := w.entities[id]; e.body != nil {
			w.grid.Add(id, e.body.AbsBounds())
		}
	}
	w.gridDirty = false
}

// Step integrates every body that integrates itself, then refreshes the index
func (w *World) Step(dt time.Duration) {
	for _, id := range w.order {
		if in, ok := w.entities[id].body.(Integrator); ok {
			in.Integrate(dt)
		}
	}
	w.RebuildIndex()
}
