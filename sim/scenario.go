package sim

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/forcefield/config"
	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/status"
)

// FromScenario builds a world and its fields from a validated scenario
// meter may be nil to use the global OpenTelemetry meter
func FromScenario(scn *config.Scenario, reg *status.Registry, log zerolog.Logger, meter metric.Meter) (*Simulation, error) {
	gravity, err := config.Vec(scn.Sim.Gravity)
	if err != nil {
		return nil, fmt.Errorf("sim gravity: %w", err)
	}

	world := engine.NewWorld(scn.Sim.CellSize)
	for _, bc := range scn.Bodies {
		spec, err := bc.Spec()
		if err != nil {
			return nil, err
		}
		rb := physics.NewRigidBody(spec.Position, spec.Mass, spec.Radius)
		rb.SetLinearVelocity(spec.Velocity)
		world.Spawn(engine.SpawnSpec{Name: spec.Name, Class: spec.Class, Body: rb})
	}

	s := New(world, reg,
		WithTickInterval(scn.Sim.TickInterval()),
		WithGravity(gravity),
		WithDamping(scn.Sim.LinearDamping),
		WithLogger(log),
	)

	for i, fc := range scn.Fields {
		f, parent, err := buildField(world, fc, scn.Sim.Seed+uint64(i), log, meter)
		if err != nil {
			return nil, err
		}
		s.AddField(f, parent)
	}

	log.Info().
		Str("scenario", scn.Name).
		Int("bodies", world.Len()).
		Int("fields", len(scn.Fields)).
		Msg("scenario built")
	return s, nil
}

func buildField(world *engine.World, fc config.FieldConfig, seed uint64, log zerolog.Logger, meter metric.Meter) (*forcefield.Field, uuid.UUID, error) {
	cfg, err := fc.ForceConfig()
	if err != nil {
		return nil, uuid.Nil, err
	}
	clip, err := fc.ClipModel()
	if err != nil {
		return nil, uuid.Nil, err
	}
	if fc.Seed != 0 {
		seed = fc.Seed
	}

	opts := []forcefield.Option{
		forcefield.WithName(fc.Name),
		forcefield.WithLogger(log),
		forcefield.WithSeed(seed),
	}
	if meter != nil {
		opts = append(opts, forcefield.WithMeter(meter))
	}
	f := forcefield.New(world, opts...)
	f.Configure(cfg)
	f.SetClipModel(clip)

	for _, name := range fc.WhiteList {
		e, ok := world.FindByName(name)
		if !ok {
			return nil, uuid.Nil, fmt.Errorf("field %q: whitelisted body %q not spawned", fc.Name, name)
		}
		f.AddToWhiteList(e)
	}

	parent := uuid.Nil
	if fc.Attach != "" {
		e, ok := world.FindByName(fc.Attach)
		if !ok {
			return nil, uuid.Nil, fmt.Errorf("field %q: parent %q not spawned", fc.Name, fc.Attach)
		}
		parent = e.UUID()
	}
	return f, parent, nil
}
