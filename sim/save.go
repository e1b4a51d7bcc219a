package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/savegame"
)

var (
	ErrUnsupportedBody = errors.New("sim: body type cannot be saved")
	ErrFieldMismatch   = errors.New("sim: saved fields do not match the scenario")
)

const maxSavedEntities = 1 << 20

// Save writes clock, every entity with its rigid body, and every field
func (s *Simulation) Save(w *savegame.Writer) error {
	w.WriteInt64(s.tick)
	w.WriteDuration(s.now)

	entities := s.world.Entities()
	w.WriteUint32(uint32(len(entities)))
	for _, e := range entities {
		w.WriteUUID(e.UUID())
		w.WriteString(e.Name())
		w.WriteUint8(uint8(e.Class()))

		body := e.Physics()
		w.WriteBool(body != nil)
		if body == nil {
			continue
		}
		rb, ok := body.(*physics.RigidBody)
		if !ok {
			return fmt.Errorf("%w: entity %q has %T", ErrUnsupportedBody, e.Name(), body)
		}
		w.WriteVec3(rb.Origin())
		w.WriteVec3(rb.LinearVelocity())
		w.WriteVec3(rb.AngularVelocity())
		w.WriteFloat64(rb.Mass())
		w.WriteFloat64(rb.Radius())
		w.WriteUint32(uint32(rb.RestTicks()))
	}

	w.WriteUint32(uint32(len(s.fields)))
	for _, a := range s.fields {
		w.WriteString(a.field.Name())
		w.WriteUUID(a.parent)
		if err := a.field.Save(w); err != nil {
			return fmt.Errorf("save field %q: %w", a.field.Name(), err)
		}
	}
	return w.Err()
}

// pendingField is a decoded field block waiting for commit
type pendingField struct {
	idx    int
	parent uuid.UUID
	state  *forcefield.SavedState
}

// Restore replaces world contents and field state with a save
// The simulation must already hold the same set of fields by name
// Everything is decoded first; on error the simulation is unchanged
func (s *Simulation) Restore(r *savegame.Reader) error {
	tick := r.ReadInt64()
	now := r.ReadDuration()

	n := r.ReadCount(maxSavedEntities)
	if err := r.Err(); err != nil {
		return fmt.Errorf("restore clock: %w", err)
	}

	specs := make([]engine.SpawnSpec, 0, n)
	for range n {
		spec := engine.SpawnSpec{
			UUID:  r.ReadUUID(),
			Name:  r.ReadString(),
			Class: engine.Class(r.ReadUint8()),
		}
		if r.ReadBool() {
			pos := r.ReadVec3()
			vel := r.ReadVec3()
			angVel := r.ReadVec3()
			mass := r.ReadFloat64()
			radius := r.ReadFloat64()
			var rest int
			if r.Version() >= 2 {
				rest = int(r.ReadUint32())
			}
			rb := physics.NewRigidBody(pos, mass, radius)
			rb.SetLinearVelocity(vel)
			rb.SetAngularVelocity(angVel)
			rb.SetRestTicks(rest)
			spec.Body = rb
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("restore entities: %w", err)
		}
		specs = append(specs, spec)
	}

	count := r.ReadCount(len(s.fields))
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFieldMismatch, err)
	}
	pending := make([]pendingField, 0, count)
	for range count {
		name := r.ReadString()
		parent := r.ReadUUID()
		if err := r.Err(); err != nil {
			return fmt.Errorf("restore fields: %w", err)
		}
		idx := s.fieldIndex(name)
		if idx < 0 {
			return fmt.Errorf("%w: no field %q", ErrFieldMismatch, name)
		}
		st, err := s.fields[idx].field.DecodeState(r)
		if err != nil {
			return err
		}
		pending = append(pending, pendingField{idx: idx, parent: parent, state: st})
	}

	s.world.Clear()
	for _, spec := range specs {
		s.world.Spawn(spec)
	}
	for _, p := range pending {
		s.fields[p.idx].field.ApplyState(p.state)
		s.fields[p.idx].parent = p.parent
	}
	s.tick, s.now = tick, now
	s.log.Info().Int64("tick", tick).Dur("sim_time", now).Int("entities", n).Msg("simulation restored")
	return nil
}

func (s *Simulation) fieldIndex(name string) int {
	for i, a := range s.fields {
		if a.field.Name() == name {
			return i
		}
	}
	return -1
}

// ParentOf reports the entity a field follows, Nil when detached
func (s *Simulation) ParentOf(name string) uuid.UUID {
	if i := s.fieldIndex(name); i >= 0 {
		return s.fields[i].parent
	}
	return uuid.Nil
}
