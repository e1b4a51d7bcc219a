package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/forcefield/vmath"
)

// Shape selects the clip model volume
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeSphere
	ShapeCylinder
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

func (s Shape) Valid() bool { return s <= ShapeCylinder }

// ParseShape accepts the lowercase shape names
func ParseShape(name string) (Shape, error) {
	for s := ShapeBox; s <= ShapeCylinder; s++ {
		if strings.EqualFold(strings.TrimSpace(name), s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown clip shape %q", name)
}

// ClipModel is a placed volume used to gather candidates for a force
// Extents by shape: box = half extents, sphere = X radius, cylinder = X radius and Z half height
type ClipModel struct {
	shape   Shape
	extents vmath.Vec3F
	origin  vmath.Vec3F
	axis    vmath.Mat3
}

// NewClipModel creates a clip model at the world origin
// Negative extents are folded to their absolute value
func NewClipModel(shape Shape, extents vmath.Vec3F) *ClipModel {
	return &ClipModel{
		shape:   shape,
		extents: vmath.Vec3F{X: math.Abs(extents.X), Y: math.Abs(extents.Y), Z: math.Abs(extents.Z)},
		axis:    vmath.Identity3,
	}
}

func NewBoxClip(half vmath.Vec3F) *ClipModel {
	return NewClipModel(ShapeBox, half)
}

func NewSphereClip(radius float64) *ClipModel {
	return NewClipModel(ShapeSphere, vmath.Vec3F{X: radius, Y: radius, Z: radius})
}

func NewCylinderClip(radius, halfHeight float64) *ClipModel {
	return NewClipModel(ShapeCylinder, vmath.Vec3F{X: radius, Y: radius, Z: halfHeight})
}

func (c *ClipModel) Shape() Shape         { return c.shape }
func (c *ClipModel) Extents() vmath.Vec3F { return c.extents }
func (c *ClipModel) Origin() vmath.Vec3F  { return c.origin }
func (c *ClipModel) Axis() vmath.Mat3     { return c.axis }

// SetPosition places the clip model without touching its shape
func (c *ClipModel) SetPosition(origin vmath.Vec3F, axis vmath.Mat3) {
	c.origin = origin
	c.axis = axis
}

// AbsBounds returns the world space box enclosing the placed volume
func (c *ClipModel) AbsBounds() vmath.Bounds {
	if c.shape == ShapeSphere {
		return vmath.BoundsFromSphere(c.origin, c.extents.X)
	}
	ext := c.extents
	if vmath.M3IsIdentity(c.axis) {
		return vmath.BoundsFromCenter(c.origin, ext)
	}
	// Half extents of a rotated box: sum of |axis row component| * extent
	var half vmath.Vec3F
	for i, e := range [3]float64{ext.X, ext.Y, ext.Z} {
		row := c.axis[i]
		half.X += math.Abs(row.X) * e
		half.Y += math.Abs(row.Y) * e
		half.Z += math.Abs(row.Z) * e
	}
	return vmath.BoundsFromCenter(c.origin, half)
}

// TouchesSphere is the narrow phase test of a sphere against the volume
func (c *ClipModel) TouchesSphere(center vmath.Vec3F, radius float64) bool {
	local := vmath.M3ToLocal(c.axis, vmath.V3FSub(center, c.origin))
	ext := c.extents

	switch c.shape {
	case ShapeSphere:
		reach := ext.X + radius
		return vmath.V3FMagSq(local) <= reach*reach

	case ShapeCylinder:
		horizontal := math.Max(0, math.Hypot(local.X, local.Y)-ext.X)
		vertical := math.Max(0, math.Abs(local.Z)-ext.Z)
		return horizontal*horizontal+vertical*vertical <= radius*radius

	default:
		box := vmath.Bounds{Min: vmath.V3FNeg(ext), Max: ext}
		closest := box.ClosestPoint(local)
		return vmath.V3FMagSq(vmath.V3FSub(local, closest)) <= radius*radius
	}
}

// Touches tests a body's absolute bounds, treated as their bounding sphere
func (c *ClipModel) Touches(b vmath.Bounds) bool {
	return c.TouchesSphere(b.Center(), vmath.V3FMag(b.Size())*0.5)
}
