package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

func spawnBall(w *World, name string, pos vmath.Vec3F, class Class) *Entity {
	return w.Spawn(SpawnSpec{
		Name:  name,
		Class: class,
		Body:  physics.NewRigidBody(pos, 1, 0.5),
	})
}

func TestWorld_ClipActorsReturnsIntersectingBodies(t *testing.T) {
	w := NewWorld(4)
	near := spawnBall(w, "near", vmath.Vec3F{X: 1}, ClassMonster)
	spawnBall(w, "far", vmath.Vec3F{X: 50}, ClassMonster)
	w.Spawn(SpawnSpec{Name: "trigger"}) // no body

	got := w.ClipActors(vmath.BoundsFromSphere(vmath.Vec3F{}, 2), nil)
	require.Len(t, got, 1)
	assert.Equal(t, near.UUID(), got[0].UUID())
}

func TestWorld_LookupIsWeak(t *testing.T) {
	w := NewWorld(4)
	e := spawnBall(w, "ball", vmath.Vec3F{}, ClassNone)

	a, ok := w.Lookup(e.UUID())
	require.True(t, ok)
	assert.Equal(t, "ball", a.Name())

	assert.True(t, w.Destroy(e.ID()))
	_, ok = w.Lookup(e.UUID())
	assert.False(t, ok, "destroyed entity must not resolve")
	assert.False(t, w.Destroy(e.ID()))
	assert.Empty(t, w.ClipActors(vmath.BoundsFromSphere(vmath.Vec3F{}, 2), nil))
}

func TestWorld_SpawnKeepsOrAssignsUUID(t *testing.T) {
	w := NewWorld(4)
	fixed := uuid.MustParse("6f1c1e3a-1111-4222-8333-444455556666")

	a := w.Spawn(SpawnSpec{UUID: fixed, Name: "a"})
	b := w.Spawn(SpawnSpec{UUID: fixed, Name: "b"})
	c := w.Spawn(SpawnSpec{Name: "c"})

	assert.Equal(t, fixed, a.UUID())
	assert.NotEqual(t, fixed, b.UUID(), "duplicate UUID must be replaced")
	assert.NotEqual(t, uuid.Nil, c.UUID())
	assert.Equal(t, 3, w.Len())

	found, ok := w.FindByName("b")
	require.True(t, ok)
	assert.Equal(t, b.ID(), found.ID())
}

func TestWorld_StepMovesBodiesAndReindexes(t *testing.T) {
	w := NewWorld(2)
	e := spawnBall(w, "mover", vmath.Vec3F{}, ClassNone)
	e.Physics().SetLinearVelocity(vmath.Vec3F{X: 10})

	w.Step(time.Second)

	assert.Empty(t, w.ClipActors(vmath.BoundsFromSphere(vmath.Vec3F{}, 1), nil))
	assert.Len(t, w.ClipActors(vmath.BoundsFromSphere(vmath.Vec3F{X: 10}, 1), nil), 1)
}

func TestClass_ParseAndString(t *testing.T) {
	c, err := ParseClass("monster|ragdoll")
	require.NoError(t, err)
	assert.True(t, c.Has(ClassMonster))
	assert.True(t, c.Has(ClassRagdoll))
	assert.False(t, c.Has(ClassPlayer))
	assert.Equal(t, "monster|ragdoll", c.String())

	c, err = ParseClass("prop")
	require.NoError(t, err)
	assert.Equal(t, ClassNone, c)

	_, err = ParseClass("vehicle")
	assert.Error(t, err)
}

func TestWorld_ClearKeepsIDsIncreasing(t *testing.T) {
	w := NewWorld(4)
	first := spawnBall(w, "a", vmath.Vec3F{}, ClassNone)
	w.Clear()

	assert.Zero(t, w.Len())
	_, ok := w.Lookup(first.UUID())
	assert.False(t, ok)
	assert.Empty(t, w.ClipActors(vmath.BoundsFromSphere(vmath.Vec3F{}, 5), nil))

	second := w.Spawn(SpawnSpec{UUID: first.UUID(), Name: "a"})
	assert.Greater(t, second.ID(), first.ID())
	assert.Equal(t, first.UUID(), second.UUID())
}
