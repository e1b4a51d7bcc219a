package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestV3FNormalizeSafe(t *testing.T) {
	v, ok := V3FNormalizeSafe(Vec3F{3, 0, 4})
	assert.True(t, ok)
	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.InDelta(t, 0.8, v.Z, 1e-12)

	_, ok = V3FNormalizeSafe(Vec3F{})
	assert.False(t, ok, "zero vector must report degenerate")

	_, ok = V3FNormalizeSafe(Vec3F{Epsilon / 2, 0, 0})
	assert.False(t, ok, "sub-epsilon vector must report degenerate")
}

func TestV3FProjectAndFlatten(t *testing.T) {
	v := Vec3F{2, 3, 4}
	assert.Equal(t, Vec3F{X: 2}, V3FProject(v, AxisX))
	assert.Equal(t, Vec3F{2, 3, 0}, V3FFlatten(v))
	assert.Equal(t, AxisZ, V3FCross(AxisX, AxisY))
}

func TestV3FIsFinite(t *testing.T) {
	assert.True(t, V3FIsFinite(Vec3F{1, 2, 3}))
	assert.False(t, V3FIsFinite(Vec3F{math.NaN(), 0, 0}))
	assert.False(t, V3FIsFinite(Vec3F{0, math.Inf(1), 0}))
}

func TestBounds(t *testing.T) {
	a := BoundsFromCenter(Vec3F{}, Vec3F{1, 1, 1})
	b := BoundsFromSphere(Vec3F{X: 2}, 1)
	assert.True(t, a.Intersects(b), "touching faces intersect")
	assert.False(t, a.Intersects(b.Translate(Vec3F{X: 0.1})))
	assert.Equal(t, Vec3F{X: 1, Y: 0.5}, a.ClosestPoint(Vec3F{X: 5, Y: 0.5}))
	assert.Equal(t, Vec3F{X: 1}, a.Union(b).Center())
}

func TestMat3RoundTrip(t *testing.T) {
	m := M3RotationZ(math.Pi / 2)
	w := M3ToWorld(m, AxisX)
	assert.InDelta(t, 0, w.X, 1e-12)
	assert.InDelta(t, 1, w.Y, 1e-12)
	back := M3ToLocal(m, w)
	assert.InDelta(t, 1, back.X, 1e-12)
	assert.True(t, M3IsIdentity(Identity3))
}

func TestFastRandDeterministic(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for i := 0; i < 32; i++ {
		fa := a.Float64()
		assert.Equal(t, fa, b.Float64())
		assert.GreaterOrEqual(t, fa, 0.0)
		assert.Less(t, fa, 1.0)
	}
	u := NewFastRand(7).UnitVec3F()
	assert.InDelta(t, 1, V3FMag(u), 1e-9)
}
