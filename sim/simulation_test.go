package sim

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/forcefield/config"
	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/savegame"
	"github.com/lixenwraith/forcefield/status"
	"github.com/lixenwraith/forcefield/vmath"
)

func spawnBall(w *engine.World, name string, pos vmath.Vec3F, mass float64) *engine.Entity {
	return w.Spawn(engine.SpawnSpec{
		Name: name,
		Body: physics.NewRigidBody(pos, mass, 0.5),
	})
}

func TestStepAppliesExplosionImpulse(t *testing.T) {
	w := engine.NewWorld(8)
	ball := spawnBall(w, "ball", vmath.Vec3F{X: 10}, 1)

	f := forcefield.New(w, forcefield.WithName("blast"))
	f.Explosion(500)
	f.SetApplyType(forcefield.ApplyImpulse)
	f.SetClipModel(physics.NewSphereClip(20))

	reg := status.NewRegistry()
	s := New(w, reg)
	s.AddField(f, uuid.Nil)
	s.Step()

	vel := ball.Physics().LinearVelocity()
	assert.InDelta(t, 500, vel.X, 1e-9)
	assert.InDelta(t, 0, vel.Y, 1e-9)
	assert.Equal(t, int64(1), s.Tick())
	assert.Equal(t, s.TickInterval(), s.Now())
	assert.Equal(t, int64(1), reg.Counters.Get("field.applied").Load())
	assert.InDelta(t, 500, reg.Gauges.Get("body.max_speed").Get(), 1e-9)
}

func TestAttachedFieldFollowsParent(t *testing.T) {
	w := engine.NewWorld(8)
	drone := w.Spawn(engine.SpawnSpec{Name: "drone", Body: physics.NewRigidBody(vmath.Vec3F{}, 0, 0.5)})
	drone.Physics().SetLinearVelocity(vmath.Vec3F{X: 60})

	f := forcefield.New(w, forcefield.WithName("tractor"))
	f.SetClipModel(physics.NewSphereClip(2))
	f.SetVelocityCompensationPct(1)

	s := New(w, status.NewRegistry(), WithTickInterval(time.Second/60))
	s.AddField(f, drone.UUID())
	s.Step()
	s.Step()

	// Positions sync before integration, so the region trails the parent by one step
	assert.InDelta(t, 1, f.ClipModel().Origin().X, 1e-6)
	assert.Equal(t, vmath.Vec3F{X: 60}, f.Config().ParentLinearVelocity)

	w.Destroy(drone.ID())
	s.Step()
	assert.Equal(t, uuid.Nil, s.ParentOf("tractor"))
	assert.InDelta(t, 1, f.ClipModel().Origin().X, 1e-6)
}

func TestRunHonoursContext(t *testing.T) {
	s := New(engine.NewWorld(8), status.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, 10), context.Canceled)
	assert.Zero(t, s.Tick())

	require.NoError(t, s.Run(context.Background(), 3))
	assert.Equal(t, int64(3), s.Tick())
}

func TestObserversSeeFieldReports(t *testing.T) {
	w := engine.NewWorld(8)
	spawnBall(w, "ball", vmath.Vec3F{}, 1)
	f := forcefield.New(w, forcefield.WithName("push"))
	f.Uniform(vmath.Vec3F{X: 1})
	f.SetClipModel(physics.NewSphereClip(3))

	s := New(w, status.NewRegistry())
	s.AddField(f, uuid.Nil)
	var got []FieldReport
	s.OnTick(func(r TickReport) {
		got = append(got, r.Fields...)
	})
	s.Step()

	require.Len(t, got, 1)
	assert.Equal(t, "push", got[0].Name)
	assert.Equal(t, forcefield.ApplyForce, got[0].Apply)
	assert.Equal(t, 1, got[0].Stats.Applied)
}

func TestGravityAndDamping(t *testing.T) {
	w := engine.NewWorld(8)
	ball := spawnBall(w, "ball", vmath.Vec3F{}, 2)
	fixed := spawnBall(w, "pin", vmath.Vec3F{X: 5}, 0)

	s := New(w, status.NewRegistry(),
		WithTickInterval(time.Second/10),
		WithGravity(vmath.Vec3F{Z: -10}))
	s.Step()
	assert.InDelta(t, -1, ball.Physics().LinearVelocity().Z, 1e-9)
	assert.Equal(t, vmath.Vec3F{X: 5}, fixed.Physics().Origin())

	damped := New(w, status.NewRegistry(), WithTickInterval(time.Second/10), WithDamping(0.5))
	damped.Step()
	assert.InDelta(t, -0.95, ball.Physics().LinearVelocity().Z, 1e-9)
}

func demoScenario(t *testing.T) *config.Scenario {
	t.Helper()
	scn, err := config.Load(filepath.Join("..", "configs", "demo.toml"))
	require.NoError(t, err)
	return scn
}

func TestDemoScenarioRuns(t *testing.T) {
	s, err := FromScenario(demoScenario(t), status.NewRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)
	require.Len(t, s.Fields(), 4)

	grenade, ok := s.Field("grenade")
	require.True(t, ok)
	player, ok := s.World().FindByName("player")
	require.True(t, ok)
	assert.True(t, grenade.IsWhiteListed(player))
	drone, _ := s.World().FindByName("drone")
	assert.Equal(t, drone.UUID(), s.ParentOf("tractor"))

	start := player.Physics().Origin()
	require.NoError(t, s.Run(context.Background(), 120))
	for _, e := range s.World().Entities() {
		assert.True(t, vmath.V3FIsFinite(e.Physics().Origin()), e.Name())
	}
	assert.Equal(t, start.X, player.Physics().Origin().X, "player is excluded from the blast and the breeze blows along Y")
}

func TestSaveRestoreResumesIdentically(t *testing.T) {
	scn := demoScenario(t)
	// Random torque draws are not part of the save
	for i := range scn.Fields {
		scn.Fields[i].RandomTorque = 0
	}

	a, err := FromScenario(scn, status.NewRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background(), 30))

	var buf bytes.Buffer
	require.NoError(t, a.Save(savegame.NewWriter(&buf)))

	b, err := FromScenario(scn, status.NewRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)
	r, err := savegame.NewReader(&buf)
	require.NoError(t, err)
	require.NoError(t, b.Restore(r))

	assert.Equal(t, a.Tick(), b.Tick())
	assert.Equal(t, a.Now(), b.Now())
	assert.Equal(t, a.ParentOf("tractor"), b.ParentOf("tractor"))

	require.NoError(t, a.Run(context.Background(), 30))
	require.NoError(t, b.Run(context.Background(), 30))
	ea, eb := a.World().Entities(), b.World().Entities()
	require.Equal(t, len(ea), len(eb))
	for i := range ea {
		assert.Equal(t, ea[i].UUID(), eb[i].UUID())
		assert.InDelta(t, ea[i].Physics().Origin().X, eb[i].Physics().Origin().X, 1e-9, ea[i].Name())
		assert.InDelta(t, ea[i].Physics().Origin().Y, eb[i].Physics().Origin().Y, 1e-9, ea[i].Name())
	}
}

func TestRestoreRejectsUnknownField(t *testing.T) {
	w := engine.NewWorld(8)
	src := New(w, status.NewRegistry())
	src.AddField(forcefield.New(w, forcefield.WithName("a")), uuid.Nil)
	var buf bytes.Buffer
	require.NoError(t, src.Save(savegame.NewWriter(&buf)))

	w2 := engine.NewWorld(8)
	dst := New(w2, status.NewRegistry())
	dst.AddField(forcefield.New(w2, forcefield.WithName("b")), uuid.Nil)
	r, err := savegame.NewReader(&buf)
	require.NoError(t, err)
	assert.ErrorIs(t, dst.Restore(r), ErrFieldMismatch)
}

func blastSim(balls int) *Simulation {
	w := engine.NewWorld(8)
	for i := range balls {
		spawnBall(w, "ball", vmath.Vec3F{X: float64(i * 2)}, 1)
	}
	f := forcefield.New(w, forcefield.WithName("blast"))
	f.Explosion(50)
	f.SetApplyType(forcefield.ApplyImpulse)
	f.SetClipModel(physics.NewSphereClip(20))
	s := New(w, status.NewRegistry())
	s.AddField(f, uuid.Nil)
	return s
}

func TestFailedRestoreLeavesSimulationUnchanged(t *testing.T) {
	src := blastSim(3)
	var buf bytes.Buffer
	require.NoError(t, src.Save(savegame.NewWriter(&buf)))
	data := buf.Bytes()[:buf.Len()-40]

	dst := blastSim(5)
	f, ok := dst.Field("blast")
	require.True(t, ok)
	f.Implosion(7)
	dst.Step()
	before := dst.World().Entities()[0].Physics().Origin()

	r, err := savegame.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Error(t, dst.Restore(r))

	assert.Equal(t, 5, dst.World().Len())
	assert.Equal(t, int64(1), dst.Tick())
	assert.Equal(t, forcefield.Implosion, f.Config().Type)
	assert.Equal(t, before, dst.World().Entities()[0].Physics().Origin())
}

func TestRestoreKeepsBodiesAtRest(t *testing.T) {
	w := engine.NewWorld(8)
	w.Spawn(engine.SpawnSpec{
		Name:  "corpse",
		Class: engine.ClassMonster | engine.ClassRagdoll,
		Body:  physics.NewRigidBody(vmath.Vec3F{}, 1, 0.5),
	})
	src := New(w, status.NewRegistry())
	for range parameter.RestTicks {
		src.Step()
	}
	corpse, ok := src.World().FindByName("corpse")
	require.True(t, ok)
	require.True(t, corpse.Physics().(*physics.RigidBody).IsAtRest())

	var buf bytes.Buffer
	require.NoError(t, src.Save(savegame.NewWriter(&buf)))

	dst := New(engine.NewWorld(8), status.NewRegistry())
	r, err := savegame.NewReader(&buf)
	require.NoError(t, err)
	require.NoError(t, dst.Restore(r))

	restored, ok := dst.World().FindByName("corpse")
	require.True(t, ok)
	assert.True(t, restored.Physics().(*physics.RigidBody).IsAtRest())
}
