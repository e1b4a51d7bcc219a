// Package sim drives forces and bodies on a fixed time step.
package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/logging"
	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/status"
	"github.com/lixenwraith/forcefield/vmath"
)

// attachment binds a field to an optional parent entity it follows
type attachment struct {
	field  *forcefield.Field
	parent uuid.UUID
}

// FieldReport is one field's result for a tick
type FieldReport struct {
	Name  string
	Apply forcefield.ApplyType
	Stats forcefield.Stats
}

// TickReport is published to observers after every step
// Fields is reused by the next step, copy it to keep it
type TickReport struct {
	Tick   int64
	Now    time.Duration
	Fields []FieldReport
}

// Simulation owns the step order: attachments, forces, gravity, integration, damping
// Not safe for concurrent use; observers run on the stepping goroutine
type Simulation struct {
	world  *engine.World
	fields []attachment
	forces []physics.Force

	dt      time.Duration
	now     time.Duration
	tick    int64
	gravity vmath.Vec3F
	damping float64

	log     zerolog.Logger
	tickLog zerolog.Logger

	observers []func(TickReport)
	report    TickReport

	statTicks      *atomic.Int64
	statApplied    *atomic.Int64
	statFiltered   *atomic.Int64
	statCandidates *atomic.Int64
	statBodies     *atomic.Int64
	statResting    *atomic.Int64
	statSimTime    *status.AtomicFloat
	statMaxSpeed   *status.AtomicFloat
}

type Option func(*Simulation)

func WithTickInterval(dt time.Duration) Option {
	return func(s *Simulation) {
		if dt > 0 {
			s.dt = dt
		}
	}
}

func WithGravity(g vmath.Vec3F) Option {
	return func(s *Simulation) { s.gravity = g }
}

// WithDamping sets the fraction of velocity lost per second
func WithDamping(d float64) Option {
	return func(s *Simulation) { s.damping = vmath.Clamp01(d) }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulation) { s.log = log }
}

// New creates a simulation over world, metrics go to reg
func New(world *engine.World, reg *status.Registry, opts ...Option) *Simulation {
	s := &Simulation{
		world: world,
		dt:    parameter.SimTickInterval,
		log:   zerolog.Nop(),

		statTicks:      reg.Counters.Get("sim.ticks"),
		statApplied:    reg.Counters.Get("field.applied"),
		statFiltered:   reg.Counters.Get("field.filtered"),
		statCandidates: reg.Counters.Get("field.candidates"),
		statBodies:     reg.Counters.Get("body.count"),
		statResting:    reg.Counters.Get("body.resting"),
		statSimTime:    reg.Gauges.Get("sim.time_s"),
		statMaxSpeed:   reg.Gauges.Get("body.max_speed"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tickLog = logging.Sampled(s.log, 5, time.Second, 120)
	return s
}

func (s *Simulation) World() *engine.World         { return s.world }
func (s *Simulation) Now() time.Duration           { return s.now }
func (s *Simulation) Tick() int64                  { return s.tick }
func (s *Simulation) TickInterval() time.Duration  { return s.dt }
func (s *Simulation) LastReport() TickReport       { return s.report }
func (s *Simulation) OnTick(fn func(r TickReport)) { s.observers = append(s.observers, fn) }

// AddField schedules f and, when parent is set, moves its region with that entity
func (s *Simulation) AddField(f *forcefield.Field, parent uuid.UUID) {
	s.fields = append(s.fields, attachment{field: f, parent: parent})
	s.forces = append(s.forces, f)
}

// AddForce schedules any other force
func (s *Simulation) AddForce(f physics.Force) {
	s.forces = append(s.forces, f)
}

// Field returns the scheduled field with the given name
func (s *Simulation) Field(name string) (*forcefield.Field, bool) {
	for _, a := range s.fields {
		if a.field.Name() == name {
			return a.field, true
		}
	}
	return nil, false
}

// Fields returns scheduled fields in insertion order
func (s *Simulation) Fields() []*forcefield.Field {
	out := make([]*forcefield.Field, len(s.fields))
	for i, a := range s.fields {
		out[i] = a.field
	}
	return out
}

// Step advances the simulation by one tick
func (s *Simulation) Step() {
	s.syncAttachments()

	for _, f := range s.forces {
		f.Evaluate(s.now)
	}

	s.applyGravity()
	s.world.Step(s.dt)
	if s.damping > 0 {
		for _, e := range s.world.Entities() {
			if rb, ok := e.Physics().(*physics.RigidBody); ok {
				rb.Damp(1-s.damping, s.dt)
			}
		}
	}

	s.now += s.dt
	s.tick++
	s.publish()
}

// Run steps ticks times, stopping early when ctx is done
func (s *Simulation) Run(ctx context.Context, ticks int) error {
	s.log.Info().Int("ticks", ticks).Dur("dt", s.dt).Int("fields", len(s.fields)).Msg("run start")
	for range ticks {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Int64("tick", s.tick).Msg("run cancelled")
			return err
		}
		s.Step()
	}
	s.log.Info().Int64("tick", s.tick).Dur("sim_time", s.now).Msg("run done")
	return nil
}

// syncAttachments moves attached regions to their parent and feeds its velocity for compensation
func (s *Simulation) syncAttachments() {
	for i := range s.fields {
		a := &s.fields[i]
		if a.parent == uuid.Nil {
			continue
		}
		parent, ok := s.world.Lookup(a.parent)
		if !ok || parent.Physics() == nil {
			s.log.Info().Str("field", a.field.Name()).Msg("parent gone, field detached")
			a.parent = uuid.Nil
			continue
		}
		body := parent.Physics()
		axis := vmath.Identity3
		if clip := a.field.ClipModel(); clip != nil {
			axis = clip.Axis()
		}
		a.field.SetPosition(body.Origin(), axis)
		a.field.SetParentLinearVelocity(body.LinearVelocity())
	}
}

func (s *Simulation) applyGravity() {
	if vmath.V3FIsZero(s.gravity) {
		return
	}
	for _, e := range s.world.Entities() {
		rb, ok := e.Physics().(*physics.RigidBody)
		if !ok || rb.Mass() == 0 || rb.IsAtRest() {
			continue
		}
		rb.AddForce(rb.Origin(), vmath.V3FScale(s.gravity, rb.Mass()))
	}
}

func (s *Simulation) publish() {
	s.report.Tick = s.tick
	s.report.Now = s.now
	s.report.Fields = s.report.Fields[:0]

	var applied, filtered, candidates int64
	for _, a := range s.fields {
		st := a.field.Stats()
		s.report.Fields = append(s.report.Fields, FieldReport{
			Name:  a.field.Name(),
			Apply: a.field.Config().ApplyType,
			Stats: st,
		})
		applied += int64(st.Applied)
		filtered += int64(st.Filtered)
		candidates += int64(st.Candidates)
	}

	var resting int64
	maxSpeed := 0.0
	entities := s.world.Entities()
	for _, e := range entities {
		body := e.Physics()
		if body == nil {
			continue
		}
		if body.IsAtRest() {
			resting++
		}
		maxSpeed = max(maxSpeed, vmath.V3FMag(body.LinearVelocity()))
	}

	s.statTicks.Store(s.tick)
	s.statApplied.Add(applied)
	s.statFiltered.Add(filtered)
	s.statCandidates.Add(candidates)
	s.statBodies.Store(int64(len(entities)))
	s.statResting.Store(resting)
	s.statSimTime.Set(s.now.Seconds())
	s.statMaxSpeed.Set(maxSpeed)

	s.tickLog.Debug().
		Int64("tick", s.tick).
		Int64("applied", applied).
		Float64("max_speed", maxSpeed).
		Msg("tick")

	for _, fn := range s.observers {
		fn(s.report)
	}
}
