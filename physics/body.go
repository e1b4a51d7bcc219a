package physics

import "github.com/lixenwraith/forcefield/vmath"

// Body is the dynamics state a force can write into
// Points are world space; applying at the origin adds no torque
type Body interface {
	Origin() vmath.Vec3F
	AbsBounds() vmath.Bounds
	LinearVelocity() vmath.Vec3F
	SetLinearVelocity(v vmath.Vec3F)
	AngularVelocity() vmath.Vec3F
	SetAngularVelocity(w vmath.Vec3F)
	// AddForce accumulates a force for the next integration step
	AddForce(point, force vmath.Vec3F)
	AddTorque(torque vmath.Vec3F)
	// ApplyImpulse changes momentum immediately
	ApplyImpulse(point, impulse vmath.Vec3F)
	ApplyAngularImpulse(impulse vmath.Vec3F)
	// IsAtRest reports a body that has settled and is no longer simulated
	IsAtRest() bool
}
