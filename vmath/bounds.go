package vmath

// Bounds is an axis-aligned box, Min <= Max on every axis when valid
type Bounds struct {
	Min, Max Vec3F
}

// BoundsFromCenter builds bounds from a center and half extents
func BoundsFromCenter(center, half Vec3F) Bounds {
	return Bounds{Min: V3FSub(center, half), Max: V3FAdd(center, half)}
}

// BoundsFromSphere returns the box enclosing a sphere
func BoundsFromSphere(center Vec3F, radius float64) Bounds {
	return BoundsFromCenter(center, Vec3F{radius, radius, radius})
}

func (b Bounds) Center() Vec3F {
	return V3FScale(V3FAdd(b.Min, b.Max), 0.5)
}

func (b Bounds) Size() Vec3F {
	return V3FSub(b.Max, b.Min)
}

// Translate offsets both corners
func (b Bounds) Translate(d Vec3F) Bounds {
	return Bounds{Min: V3FAdd(b.Min, d), Max: V3FAdd(b.Max, d)}
}

// Intersects reports overlap, touching faces count
func (b Bounds) Intersects(o Bounds) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func (b Bounds) Contains(p Vec3F) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ClosestPoint clamps p into the box
func (b Bounds) ClosestPoint(p Vec3F) Vec3F {
	return Vec3F{
		X: Clamp(p.X, b.Min.X, b.Max.X),
		Y: Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Union returns the smallest box enclosing both
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Vec3F{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y), min(b.Min.Z, o.Min.Z)},
		Max: Vec3F{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y), max(b.Max.Z, o.Max.Z)},
	}
}
