package physics

import (
	"time"

	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/vmath"
)

// RigidBody is a sphere-inertia rigid body integrated with semi-implicit Euler
// Zero mass makes the body kinematic: it keeps its set velocity and ignores forces
type RigidBody struct {
	pos    vmath.Vec3F
	vel    vmath.Vec3F
	angVel vmath.Vec3F
	radius float64

	mass       float64
	invMass    float64
	invInertia float64

	// Accumulated per step, cleared by Integrate
	force  vmath.Vec3F
	torque vmath.Vec3F

	restTicks int
}

// NewRigidBody creates a solid sphere body at pos
func NewRigidBody(pos vmath.Vec3F, mass, radius float64) *RigidBody {
	b := &RigidBody{pos: pos, radius: radius}
	b.SetMass(mass)
	return b
}

// SetMass updates mass and the derived solid sphere inertia (2/5 m r²)
func (b *RigidBody) SetMass(mass float64) {
	if mass <= 0 {
		b.mass, b.invMass, b.invInertia = 0, 0, 0
		return
	}
	b.mass = mass
	b.invMass = 1 / mass
	inertia := 0.4 * mass * b.radius * b.radius
	if inertia > 0 {
		b.invInertia = 1 / inertia
	} else {
		b.invInertia = 0
	}
}

func (b *RigidBody) Mass() float64   { return b.mass }
func (b *RigidBody) Radius() float64 { return b.radius }

func (b *RigidBody) Origin() vmath.Vec3F { return b.pos }

// SetOrigin teleports the body and wakes it
func (b *RigidBody) SetOrigin(p vmath.Vec3F) {
	b.pos = p
	b.restTicks = 0
}

func (b *RigidBody) AbsBounds() vmath.Bounds {
	return vmath.BoundsFromSphere(b.pos, b.radius)
}

func (b *RigidBody) LinearVelocity() vmath.Vec3F { return b.vel }

func (b *RigidBody) SetLinearVelocity(v vmath.Vec3F) {
	b.vel = v
	b.restTicks = 0
}

func (b *RigidBody) AngularVelocity() vmath.Vec3F { return b.angVel }

func (b *RigidBody) SetAngularVelocity(w vmath.Vec3F) {
	b.angVel = w
	b.restTicks = 0
}

func (b *RigidBody) AddForce(point, force vmath.Vec3F) {
	b.force = vmath.V3FAdd(b.force, force)
	arm := vmath.V3FSub(point, b.pos)
	b.torque = vmath.V3FAdd(b.torque, vmath.V3FCross(arm, force))
	b.restTicks = 0
}

func (b *RigidBody) AddTorque(torque vmath.Vec3F) {
	b.torque = vmath.V3FAdd(b.torque, torque)
	b.restTicks = 0
}

// ApplyImpulse adds velocity delta (momentum transfer)
func (b *RigidBody) ApplyImpulse(point, impulse vmath.Vec3F) {
	b.vel = vmath.V3FAdd(b.vel, vmath.V3FScale(impulse, b.invMass))
	arm := vmath.V3FSub(point, b.pos)
	b.angVel = vmath.V3FAdd(b.angVel, vmath.V3FScale(vmath.V3FCross(arm, impulse), b.invInertia))
	b.restTicks = 0
}

func (b *RigidBody) ApplyAngularImpulse(impulse vmath.Vec3F) {
	b.angVel = vmath.V3FAdd(b.angVel, vmath.V3FScale(impulse, b.invInertia))
	b.restTicks = 0
}

// PendingForce returns the force accumulated since the last Integrate
func (b *RigidBody) PendingForce() vmath.Vec3F  { return b.force }
func (b *RigidBody) PendingTorque() vmath.Vec3F { return b.torque }

// IsAtRest reports a body that stayed below rest speeds for RestTicks steps
func (b *RigidBody) IsAtRest() bool {
	return b.restTicks >= parameter.RestTicks
}

// RestTicks is the number of consecutive slow steps, capped at parameter.RestTicks
func (b *RigidBody) RestTicks() int { return b.restTicks }

// SetRestTicks restores rest progress, used when loading a save
func (b *RigidBody) SetRestTicks(n int) {
	b.restTicks = min(max(n, 0), parameter.RestTicks)
}

// Integrate performs physics integration: v = v + a*dt; p = p + v*dt
func (b *RigidBody) Integrate(dt time.Duration) {
	secs := dt.Seconds()
	if b.invMass > 0 {
		b.vel = vmath.V3FAdd(b.vel, vmath.V3FScale(b.force, b.invMass*secs))
		b.angVel = vmath.V3FAdd(b.angVel, vmath.V3FScale(b.torque, b.invInertia*secs))
		b.pos = vmath.V3FAdd(b.pos, vmath.V3FScale(b.vel, secs))
	} else {
		b.pos = vmath.V3FAdd(b.pos, vmath.V3FScale(b.vel, secs))
	}
	b.force, b.torque = vmath.Vec3F{}, vmath.Vec3F{}

	if vmath.V3FMag(b.vel) < parameter.RestLinearSpeed && vmath.V3FMag(b.angVel) < parameter.RestAngularSpeed {
		if b.restTicks < parameter.RestTicks {
			b.restTicks++
		}
	} else {
		b.restTicks = 0
	}
}

// Damp applies frame-rate independent damping, linear approximation of factor^dt
// factor is the per second retention in [0,1]
func (b *RigidBody) Damp(factor float64, dt time.Duration) {
	decay := 1 - (1-vmath.Clamp01(factor))*dt.Seconds()
	decay = vmath.Clamp01(decay)
	b.vel = vmath.V3FScale(b.vel, decay)
	b.angVel = vmath.V3FScale(b.angVel, decay)
}
