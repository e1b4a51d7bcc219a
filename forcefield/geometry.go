package forcefield

import (
	"math"
	"time"

	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/vmath"
)

// RadialDirection returns the unit push direction for explosion and implosion
// A candidate on the origin gets the type's fallback axis, other types return zero
func RadialDirection(t FieldType, origin, pos vmath.Vec3F) vmath.Vec3F {
	switch t {
	case Explosion:
		if d, ok := vmath.V3FNormalizeSafe(vmath.V3FSub(pos, origin)); ok {
			return d
		}
		return parameter.ExplosionFallbackAxis
	case Implosion:
		if d, ok := vmath.V3FNormalizeSafe(vmath.V3FSub(origin, pos)); ok {
			return d
		}
		return parameter.ImplosionFallbackAxis
	default:
		return vmath.Vec3F{}
	}
}

// Direction returns the unit push direction for a candidate at pos
// False means no usable direction: a zero uniform force or a vertical push flattened by 2D mode
func (f *Field) Direction(pos vmath.Vec3F) (vmath.Vec3F, bool) {
	var dir vmath.Vec3F
	if f.cfg.Type == Uniform || f.clip == nil {
		dir = f.cfg.Dir
	} else {
		dir = RadialDirection(f.cfg.Type, f.clip.Origin(), pos)
	}
	if f.cfg.Mode2D {
		return vmath.V3FNormalizeSafe(vmath.V3FFlatten(dir))
	}
	return dir, !vmath.V3FIsZero(dir)
}

// SwingOffset is the oscillation added to the base magnitude at absolute time now
func (f *Field) SwingOffset(now time.Duration) float64 {
	period := f.cfg.SwingPeriod
	if period <= 0 || f.cfg.SwingMagnitude == 0 {
		return 0
	}
	// Integer modulo keeps the phase exact for long running simulations
	phase := float64(now%period) / float64(period)
	return f.cfg.SwingMagnitude * math.Sin(2*math.Pi*phase)
}
