package forcefield

import (
	"fmt"
	"strings"
)

// FieldType selects how push direction is derived
type FieldType uint8

const (
	// Uniform pushes every candidate along one fixed direction
	Uniform FieldType = iota
	// Explosion pushes away from the region origin
	Explosion
	// Implosion pulls toward the region origin
	Implosion
)

// ApplyType selects how the computed vector is written into a body
type ApplyType uint8

const (
	ApplyForce ApplyType = iota
	ApplyVelocity
	ApplyImpulse
)

// MagnitudeType selects the zone falloff law
type MagnitudeType uint8

const (
	// MagnitudeFixed ignores zones
	MagnitudeFixed MagnitudeType = iota
	// MagnitudeDistanceNear is strongest inside the inner radius
	MagnitudeDistanceNear
	// MagnitudeDistanceFar is strongest beyond the falloff radius
	MagnitudeDistanceFar
)

var (
	fieldTypeNames     = [...]string{"uniform", "explosion", "implosion"}
	applyTypeNames     = [...]string{"force", "velocity", "impulse"}
	magnitudeTypeNames = [...]string{"fixed", "near", "far"}
)

func (t FieldType) String() string     { return enumName(fieldTypeNames[:], int(t)) }
func (t ApplyType) String() string     { return enumName(applyTypeNames[:], int(t)) }
func (t MagnitudeType) String() string { return enumName(magnitudeTypeNames[:], int(t)) }

func (t FieldType) Valid() bool     { return int(t) < len(fieldTypeNames) }
func (t ApplyType) Valid() bool     { return int(t) < len(applyTypeNames) }
func (t MagnitudeType) Valid() bool { return int(t) < len(magnitudeTypeNames) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func enumParse(names []string, kind, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

// ParseFieldType accepts "uniform", "explosion", "implosion"
func ParseFieldType(s string) (FieldType, error) {
	i, err := enumParse(fieldTypeNames[:], "field type", s)
	return FieldType(i), err
}

// ParseApplyType accepts "force", "velocity", "impulse"
func ParseApplyType(s string) (ApplyType, error) {
	i, err := enumParse(applyTypeNames[:], "apply type", s)
	return ApplyType(i), err
}

// ParseMagnitudeType accepts "fixed", "near", "far"
func ParseMagnitudeType(s string) (MagnitudeType, error) {
	i, err := enumParse(magnitudeTypeNames[:], "magnitude type", s)
	return MagnitudeType(i), err
}
