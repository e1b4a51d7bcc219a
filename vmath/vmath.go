package vmath

import "math"

// Epsilon is the length below which a vector is treated as degenerate
const Epsilon = 1e-6

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1], NaN maps to 0
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// --- Randomness ---

// FastRand is a xorshift64 generator, deterministic per seed
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Signed returns a value in [-1, 1)
func (r *FastRand) Signed() float64 {
	return r.Float64()*2 - 1
}

// UnitVec3F returns a random unit vector, rejection sampled inside the unit ball
func (r *FastRand) UnitVec3F() Vec3F {
	for i := 0; i < 16; i++ {
		v := Vec3F{r.Signed(), r.Signed(), r.Signed()}
		magSq := V3FMagSq(v)
		if magSq > 1e-4 && magSq <= 1 {
			return V3FScale(v, 1/math.Sqrt(magSq))
		}
	}
	return AxisZ
}
