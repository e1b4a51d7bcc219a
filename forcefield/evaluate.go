package forcefield

import (
	"time"

	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

// Evaluate applies the field to every accepted body touching the region at time now
// A field without a clip model does nothing
func (f *Field) Evaluate(now time.Duration) {
	f.stats = Stats{}
	if f.clip == nil {
		return
	}

	f.candidates = f.space.ClipActors(f.clip.AbsBounds(), f.candidates[:0])
	f.stats.Candidates = len(f.candidates)

	magnitude := f.cfg.Magnitude + f.SwingOffset(now)
	for _, a := range f.candidates {
		body := a.Physics()
		if body == nil || !f.accepts(a, body) {
			f.stats.Filtered++
			continue
		}
		if !f.clip.Touches(body.AbsBounds()) {
			f.stats.Skipped++
			continue
		}
		if f.applyTo(now, body, magnitude) {
			f.stats.Applied++
		} else {
			f.stats.Skipped++
		}
	}

	// Drop references so the buffer does not keep destroyed actors reachable
	clear(f.candidates)
	f.candidates = f.candidates[:0]

	f.metrics.record(f.stats)
	f.log.Trace().
		Dur("now", now).
		Int("candidates", f.stats.Candidates).
		Int("filtered", f.stats.Filtered).
		Int("skipped", f.stats.Skipped).
		Int("applied", f.stats.Applied).
		Msg("evaluate")
}

func (f *Field) applyTo(now time.Duration, body physics.Body, magnitude float64) bool {
	pos := body.Origin()
	pct := f.zonePct(pos)
	if pct <= 0 {
		return false
	}

	if f.cfg.WindMode {
		return f.applyWind(now, body, magnitude*pct)
	}

	dir, ok := f.Direction(pos)
	if !ok {
		return false
	}
	target := vmath.V3FScale(dir, magnitude*pct)

	switch f.cfg.ApplyType {
	case ApplyForce:
		body.AddForce(pos, target)
	case ApplyVelocity:
		body.SetLinearVelocity(f.BlendVelocity(body.LinearVelocity(), dir, target))
	case ApplyImpulse:
		body.ApplyImpulse(pos, target)
	}
	f.applyRandomTorque(body)
	return true
}

// BlendVelocity mixes a body's existing velocity with the field target
// Parent compensation is removed first, then the kept share and the share along dir are added to target
func (f *Field) BlendVelocity(existing, dir, target vmath.Vec3F) vmath.Vec3F {
	if f.cfg.VelocityCompensationPct > 0 {
		existing = vmath.V3FSub(existing, vmath.V3FScale(f.cfg.ParentLinearVelocity, f.cfg.VelocityCompensationPct))
	}
	out := target
	if f.cfg.OldVelocityPct > 0 {
		out = vmath.V3FAdd(out, vmath.V3FScale(existing, f.cfg.OldVelocityPct))
	}
	if f.cfg.OldVelocityProjPct > 0 {
		out = vmath.V3FAdd(out, vmath.V3FScale(vmath.V3FProject(existing, dir), f.cfg.OldVelocityProjPct))
	}
	return out
}

func (f *Field) applyRandomTorque(body physics.Body) {
	if f.cfg.RandomTorque == 0 {
		return
	}
	torque := vmath.V3FScale(f.rng.UnitVec3F(), abs(f.cfg.RandomTorque)*f.rng.Float64())
	switch f.cfg.ApplyType {
	case ApplyForce:
		body.AddTorque(torque)
	case ApplyVelocity:
		body.SetAngularVelocity(torque)
	case ApplyImpulse:
		body.ApplyAngularImpulse(torque)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
