package vmath

import "math"

// Mat3 is a row-major 3x3 orientation, rows are the local X, Y, Z axes in world space
type Mat3 [3]Vec3F

// Identity3 is the world-aligned orientation
var Identity3 = Mat3{AxisX, AxisY, AxisZ}

// M3RotationZ returns a yaw rotation by angle radians
func M3RotationZ(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{X: c, Y: s},
		{X: -s, Y: c},
		AxisZ,
	}
}

// M3ToWorld maps a local vector into world space
func M3ToWorld(m Mat3, v Vec3F) Vec3F {
	return V3FAdd(V3FAdd(V3FScale(m[0], v.X), V3FScale(m[1], v.Y)), V3FScale(m[2], v.Z))
}

// M3ToLocal maps a world vector into the local frame (transpose multiply)
func M3ToLocal(m Mat3, v Vec3F) Vec3F {
	return Vec3F{V3FDot(m[0], v), V3FDot(m[1], v), V3FDot(m[2], v)}
}

// M3IsIdentity reports whether m is exactly world aligned
func M3IsIdentity(m Mat3) bool {
	return m == Identity3
}
