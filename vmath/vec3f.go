package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector, Z is up
type Vec3F struct {
	X, Y, Z float64
}

var (
	AxisX = Vec3F{X: 1}
	AxisY = Vec3F{Y: 1}
	AxisZ = Vec3F{Z: 1}
)

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FNeg(v Vec3F) Vec3F {
	return Vec3F{-v.X, -v.Y, -v.Z}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FDist returns Euclidean distance between two points
func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(a, b))
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FNormalizeSafe normalizes v, reporting false when |v| <= Epsilon
// Callers pick their own fallback for the degenerate case
func V3FNormalizeSafe(v Vec3F) (Vec3F, bool) {
	magSq := V3FMagSq(v)
	if magSq <= Epsilon*Epsilon {
		return Vec3F{}, false
	}
	inv := 1.0 / math.Sqrt(magSq)
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// V3FProject returns the component of v along unit vector dir
func V3FProject(v, dir Vec3F) Vec3F {
	return V3FScale(dir, V3FDot(v, dir))
}

// V3FFlatten zeroes the vertical component
func V3FFlatten(v Vec3F) Vec3F {
	return Vec3F{X: v.X, Y: v.Y}
}

// V3FIsZero reports whether every component is within Epsilon of zero
func V3FIsZero(v Vec3F) bool {
	return math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon && math.Abs(v.Z) <= Epsilon
}

// V3FIsFinite reports false if any component is NaN or Inf
func V3FIsFinite(v Vec3F) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
