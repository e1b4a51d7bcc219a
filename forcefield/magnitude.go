package forcefield

import (
	"math"

	"github.com/lixenwraith/forcefield/vmath"
)

// distancePct is 1 inside radiusInner, 0 from radiusFalloff on, linear in between
// A zero width zone is a step at that radius
func distancePct(distance, radiusInner, radiusFalloff float64) float64 {
	if math.IsNaN(distance) {
		return 0
	}
	if distance <= radiusInner {
		return 1
	}
	if distance >= radiusFalloff {
		return 0
	}
	return (radiusFalloff - distance) / (radiusFalloff - radiusInner)
}

// MagnitudePct maps a distance through a zone to a strength in [0,1]
func MagnitudePct(kind MagnitudeType, distance, radiusInner, radiusFalloff float64) float64 {
	switch kind {
	case MagnitudeDistanceNear:
		return distancePct(distance, radiusInner, radiusFalloff)
	case MagnitudeDistanceFar:
		return 1 - distancePct(distance, radiusInner, radiusFalloff)
	default:
		return 1
	}
}

// ComputeMagnitudePct applies the field's magnitude type to a zone
func (f *Field) ComputeMagnitudePct(distance, radiusInner, radiusFalloff float64) float64 {
	return MagnitudePct(f.cfg.MagnitudeType, distance, radiusInner, radiusFalloff)
}

// zonePct returns the strength at pos from the active zone
// Sphere wins over cylinder; no zone means full strength
func (f *Field) zonePct(pos vmath.Vec3F) float64 {
	origin := f.clip.Origin()
	switch {
	case f.cfg.SphereMax > 0:
		d := vmath.V3FDist(pos, origin)
		return f.ComputeMagnitudePct(d, f.cfg.SphereMin, f.cfg.SphereMax)
	case f.cfg.CylinderMax > 0:
		local := vmath.M3ToLocal(f.clip.Axis(), vmath.V3FSub(pos, origin))
		d := math.Hypot(local.X, local.Y)
		return f.ComputeMagnitudePct(d, f.cfg.CylinderMin, f.cfg.CylinderMax)
	default:
		return 1
	}
}
