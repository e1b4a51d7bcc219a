package forcefield

import (
	"time"

	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

// GustFactor scales wind strength at time now, never negative
func (f *Field) GustFactor(now time.Duration) float64 {
	if f.cfg.WindGust == 0 {
		return 1
	}
	if f.gust == nil {
		f.gust = newGustNoise()
	}
	n := f.gust.Eval2(now.Seconds()*f.cfg.WindGustFrequency, 0)
	return max(0, 1+f.cfg.WindGust*n)
}

// applyWind nudges the body toward the target speed along the wind direction
// A body already moving at or above target is left alone
func (f *Field) applyWind(now time.Duration, body physics.Body, strength float64) bool {
	dir := f.cfg.Dir
	if f.cfg.Mode2D {
		dir = vmath.V3FFlatten(dir)
	}
	dir, ok := vmath.V3FNormalizeSafe(dir)
	if !ok {
		return false
	}

	target := strength * f.GustFactor(now)
	vel := body.LinearVelocity()
	along := vmath.V3FDot(vel, dir)
	if along >= target {
		return false
	}
	nudge := vmath.V3FScale(dir, (target-along)*parameter.WindNudgeFraction)
	body.SetLinearVelocity(vmath.V3FAdd(vel, nudge))
	return true
}
