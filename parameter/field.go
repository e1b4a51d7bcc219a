package parameter

import (
	"time"

	"github.com/lixenwraith/forcefield/vmath"
)

// Field geometry fallbacks, used when a candidate sits exactly on the region origin
var (
	ExplosionFallbackAxis = vmath.AxisZ
	ImplosionFallbackAxis = vmath.Vec3F{Z: -1}
)

// Wind mode
const (
	// WindNudgeFraction is the share of the missing along-wind speed added per evaluation
	WindNudgeFraction = 0.1
	// WindGustNoiseSeed seeds the gust noise so every run sees the same gust pattern
	WindGustNoiseSeed = 0x5eed
	// WindGustDefaultFrequency is gust noise samples per second of simulation time
	WindGustDefaultFrequency = 0.5
)

// Candidate buffer sizing
const (
	FieldCandidateCapacity = 32
)

// Body rest detection
const (
	RestLinearSpeed  = 0.05
	RestAngularSpeed = 0.05
	RestTicks        = 30
)

// Simulation defaults
const (
	SimTickRate          = 60
	SimDefaultTicks      = 600
	SimGridCellSize      = 8.0
	SimDefaultBodyMass   = 1.0
	SimDefaultBodyRadius = 0.5
)

// SimTickInterval is the fixed step duration at SimTickRate
var SimTickInterval = time.Second / SimTickRate
