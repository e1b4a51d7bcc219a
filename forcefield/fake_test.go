package forcefield

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

// recordingBody captures every write a field makes
type recordingBody struct {
	pos    vmath.Vec3F
	radius float64
	vel    vmath.Vec3F
	angVel vmath.Vec3F
	atRest bool

	forces          []vmath.Vec3F
	torques         []vmath.Vec3F
	impulses        []vmath.Vec3F
	angularImpulses []vmath.Vec3F
	velocitySets    int
}

func newBody(pos vmath.Vec3F) *recordingBody {
	return &recordingBody{pos: pos, radius: 0.5}
}

func (b *recordingBody) Origin() vmath.Vec3F { return b.pos }
func (b *recordingBody) AbsBounds() vmath.Bounds {
	return vmath.BoundsFromSphere(b.pos, b.radius)
}
func (b *recordingBody) LinearVelocity() vmath.Vec3F { return b.vel }
func (b *recordingBody) SetLinearVelocity(v vmath.Vec3F) {
	b.vel = v
	b.velocitySets++
}
func (b *recordingBody) AngularVelocity() vmath.Vec3F     { return b.angVel }
func (b *recordingBody) SetAngularVelocity(w vmath.Vec3F) { b.angVel = w }
func (b *recordingBody) AddForce(_, force vmath.Vec3F)    { b.forces = append(b.forces, force) }
func (b *recordingBody) AddTorque(t vmath.Vec3F)          { b.torques = append(b.torques, t) }
func (b *recordingBody) ApplyImpulse(_, impulse vmath.Vec3F) {
	b.impulses = append(b.impulses, impulse)
}
func (b *recordingBody) ApplyAngularImpulse(i vmath.Vec3F) {
	b.angularImpulses = append(b.angularImpulses, i)
}
func (b *recordingBody) IsAtRest() bool { return b.atRest }

func (b *recordingBody) touched() bool {
	return len(b.forces)+len(b.impulses)+b.velocitySets > 0
}

type fakeActor struct {
	id    uuid.UUID
	name  string
	class engine.Class
	body  physics.Body
}

func (a *fakeActor) UUID() uuid.UUID       { return a.id }
func (a *fakeActor) Name() string          { return a.name }
func (a *fakeActor) Class() engine.Class   { return a.class }
func (a *fakeActor) Physics() physics.Body { return a.body }

// fakeSpace answers broadphase queries with a linear AABB scan
type fakeSpace struct {
	actors []*fakeActor
}

func (s *fakeSpace) add(name string, class engine.Class, body physics.Body) *fakeActor {
	a := &fakeActor{id: uuid.New(), name: name, class: class, body: body}
	s.actors = append(s.actors, a)
	return a
}

func (s *fakeSpace) remove(a *fakeActor) {
	for i, o := range s.actors {
		if o == a {
			s.actors = append(s.actors[:i], s.actors[i+1:]...)
			return
		}
	}
}

func (s *fakeSpace) ClipActors(b vmath.Bounds, dst []engine.Actor) []engine.Actor {
	for _, a := range s.actors {
		if a.body == nil {
			dst = append(dst, a)
			continue
		}
		if b.Intersects(a.body.AbsBounds()) {
			dst = append(dst, a)
		}
	}
	return dst
}

func (s *fakeSpace) Lookup(id uuid.UUID) (engine.Actor, bool) {
	for _, a := range s.actors {
		if a.id == id {
			return a, true
		}
	}
	return nil, false
}

// sphereField places a sphere region of radius r at the world origin
func sphereField(space Space, r float64) *Field {
	f := New(space, WithName("test"), WithSeed(7))
	f.SetClipModel(physics.NewSphereClip(r))
	return f
}
