package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/physics"
)

// Class is a bitmask of entity categories used by force filters
type Class uint8

const (
	ClassPlayer Class = 1 << iota
	ClassMonster
	ClassRagdoll

	ClassNone Class = 0
)

func (c Class) Has(flag Class) bool { return c&flag != 0 }

func (c Class) String() string {
	if c == ClassNone {
		return "none"
	}
	var parts []string
	if c.Has(ClassPlayer) {
		parts = append(parts, "player")
	}
	if c.Has(ClassMonster) {
		parts = append(parts, "monster")
	}
	if c.Has(ClassRagdoll) {
		parts = append(parts, "ragdoll")
	}
	return strings.Join(parts, "|")
}

// ParseClass parses a "|" or "," separated list of class names, "none" and "prop" are empty
func ParseClass(s string) (Class, error) {
	var c Class
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "player":
			c |= ClassPlayer
		case "monster":
			c |= ClassMonster
		case "ragdoll":
			c |= ClassRagdoll
		case "none", "prop", "":
		default:
			return ClassNone, fmt.Errorf("unknown entity class %q", part)
		}
	}
	return c, nil
}

// Actor is the view of an entity that forces act on
// Physics returns nil for entities without dynamics
type Actor interface {
	UUID() uuid.UUID
	Name() string
	Class() Class
	Physics() physics.Body
}
