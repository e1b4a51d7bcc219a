package physics

import "time"

// Force is evaluated once per simulation tick by its owner
// now is absolute simulation time, so evaluation is repeatable for a given tick
type Force interface {
	Evaluate(now time.Duration)
}
