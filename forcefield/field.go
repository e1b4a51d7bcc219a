// Package forcefield implements a region-of-influence force applicator.
//
// A Field owns a clip model describing its region. Each Evaluate gathers the
// actors whose bodies touch the region, filters them, and writes a force,
// velocity or impulse into each survivor according to the field shape,
// falloff zones and oscillation.
package forcefield

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ojrac/opensimplex-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

// Space is the entity framework as seen by a field
type Space interface {
	// ClipActors appends actors whose bodies intersect b
	ClipActors(b vmath.Bounds, dst []engine.Actor) []engine.Actor
	// Lookup resolves an identity to a live actor
	Lookup(id uuid.UUID) (engine.Actor, bool)
}

// Config is the full tunable state of a field
type Config struct {
	Type          FieldType
	ApplyType     ApplyType
	MagnitudeType MagnitudeType

	Magnitude    float64
	Dir          vmath.Vec3F // unit, Uniform only
	RandomTorque float64

	SphereMin, SphereMax     float64
	CylinderMin, CylinderMax float64

	SwingMagnitude float64
	SwingPeriod    time.Duration

	OldVelocityPct          float64
	OldVelocityProjPct      float64
	VelocityCompensationPct float64
	ParentLinearVelocity    vmath.Vec3F

	PlayerOnly             bool
	MonsterOnly            bool
	UseWhitelist           bool
	ExclusiveMode          bool
	IgnoreInactiveRagdolls bool

	Mode2D            bool
	WindMode          bool
	WindGust          float64
	WindGustFrequency float64
}

// Stats summarizes the last Evaluate
type Stats struct {
	Candidates int // broadphase hits
	Filtered   int // rejected by class, whitelist, ragdoll or missing dynamics
	Skipped    int // outside the region, zero zone strength or degenerate direction
	Applied    int
}

// Field applies force to bodies inside its clip model region
// Not safe for concurrent use; one writer and one evaluator per field
type Field struct {
	name  string
	space Space
	log   zerolog.Logger

	cfg       Config
	clip      *physics.ClipModel
	whiteList WhiteList

	rng        *vmath.FastRand
	gust       opensimplex.Noise
	meter      metric.Meter
	metrics    *fieldMetrics
	candidates []engine.Actor
	stats      Stats
}

func newGustNoise() opensimplex.Noise {
	return opensimplex.New(parameter.WindGustNoiseSeed)
}

// Option customizes a field at construction
type Option func(*Field)

// WithName labels log lines and metrics
func WithName(name string) Option {
	return func(f *Field) { f.name = name }
}

func WithLogger(log zerolog.Logger) Option {
	return func(f *Field) { f.log = log }
}

// WithSeed fixes the random torque sequence
func WithSeed(seed uint64) Option {
	return func(f *Field) { f.rng = vmath.NewFastRand(seed) }
}

// WithMeter overrides the global OpenTelemetry meter
func WithMeter(m metric.Meter) Option {
	return func(f *Field) { f.meter = m }
}

// New creates a neutral field: uniform, zero magnitude, force apply, no filters, no region
func New(space Space, opts ...Option) *Field {
	f := &Field{
		space:      space,
		log:        zerolog.Nop(),
		rng:        vmath.NewFastRand(1),
		gust:       newGustNoise(),
		candidates: make([]engine.Actor, 0, parameter.FieldCandidateCapacity),
		cfg: Config{
			WindGustFrequency: parameter.WindGustDefaultFrequency,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.name != "" {
		f.log = f.log.With().Str("field", f.name).Logger()
	}
	f.metrics = newFieldMetrics(f.meter, f.name, f.log)
	return f
}

func (f *Field) Name() string { return f.name }

// Config returns a copy of the current configuration
func (f *Field) Config() Config { return f.cfg }

// Configure applies c through the setters so every clamp applies
// Zones are applied after the magnitude type, a Fixed type with a zone is promoted
func (f *Field) Configure(c Config) {
	switch c.Type {
	case Explosion:
		f.Explosion(c.Magnitude)
	case Implosion:
		f.Implosion(c.Magnitude)
	default:
		f.Uniform(vmath.V3FScale(c.Dir, c.Magnitude))
	}
	f.SetApplyType(c.ApplyType)
	f.SetMagnitudeType(c.MagnitudeType)
	f.SetMagnitudeSphere(c.SphereMin, c.SphereMax)
	f.SetMagnitudeCylinder(c.CylinderMin, c.CylinderMax)
	f.RandomTorque(c.RandomTorque)
	f.Swing(c.SwingMagnitude, c.SwingPeriod)
	f.SetOldVelocityPct(c.OldVelocityPct)
	f.SetOldVelocityProjPct(c.OldVelocityProjPct)
	f.SetVelocityCompensationPct(c.VelocityCompensationPct)
	f.SetParentLinearVelocity(c.ParentLinearVelocity)
	f.SetMonsterOnly(c.MonsterOnly)
	f.SetPlayerOnly(c.PlayerOnly)
	f.UseWhitelist(c.UseWhitelist)
	f.ExclusiveMode(c.ExclusiveMode)
	f.IgnoreInactiveRagdolls(c.IgnoreInactiveRagdolls)
	f.SetMode2D(c.Mode2D)
	f.SetWindMode(c.WindMode)
	f.SetWindGust(c.WindGust, c.WindGustFrequency)
}

// Stats returns counters of the last Evaluate
func (f *Field) Stats() Stats { return f.stats }

// --- Shape ---

// Uniform makes a constant force along force's direction with its length as magnitude
func (f *Field) Uniform(force vmath.Vec3F) {
	f.cfg.Type = Uniform
	dir, ok := vmath.V3FNormalizeSafe(force)
	if !ok {
		f.cfg.Dir, f.cfg.Magnitude = vmath.Vec3F{}, 0
		return
	}
	f.cfg.Dir = dir
	f.cfg.Magnitude = vmath.V3FMag(force)
}

// Explosion pushes away from the clip model origin
func (f *Field) Explosion(force float64) {
	f.cfg.Type = Explosion
	f.cfg.Magnitude = force
}

// Implosion pulls toward the clip model origin
func (f *Field) Implosion(force float64) {
	f.cfg.Type = Implosion
	f.cfg.Magnitude = force
}

// RandomTorque bounds an extra random rotation applied with every push
func (f *Field) RandomTorque(force float64) {
	f.cfg.RandomTorque = force
}

func (f *Field) SetApplyType(t ApplyType) {
	if !t.Valid() {
		f.log.Warn().Stringer("apply_type", t).Msg("invalid apply type ignored")
		return
	}
	f.cfg.ApplyType = t
}

func (f *Field) SetMagnitudeType(t MagnitudeType) {
	if !t.Valid() {
		f.log.Warn().Stringer("magnitude_type", t).Msg("invalid magnitude type ignored")
		return
	}
	f.cfg.MagnitudeType = t
}

// SetMagnitudeSphere sets a spherical zone around the region origin, max 0 disables it
func (f *Field) SetMagnitudeSphere(radiusMin, radiusMax float64) {
	f.cfg.SphereMin, f.cfg.SphereMax = f.sanitizeZone("sphere", radiusMin, radiusMax)
	f.promoteMagnitudeType(f.cfg.SphereMax)
}

// SetMagnitudeCylinder sets a zone measured from the region's vertical axis, max 0 disables it
func (f *Field) SetMagnitudeCylinder(radiusMin, radiusMax float64) {
	f.cfg.CylinderMin, f.cfg.CylinderMax = f.sanitizeZone("cylinder", radiusMin, radiusMax)
	f.promoteMagnitudeType(f.cfg.CylinderMax)
}

func (f *Field) sanitizeZone(kind string, lo, hi float64) (float64, float64) {
	if math.IsNaN(lo) || lo < 0 {
		f.log.Warn().Str("zone", kind).Float64("min", lo).Msg("invalid zone min clamped to 0")
		lo = 0
	}
	if math.IsNaN(hi) || hi < 0 {
		f.log.Warn().Str("zone", kind).Float64("max", hi).Msg("invalid zone max clamped to 0")
		hi = 0
	}
	if lo > hi {
		f.log.Warn().Str("zone", kind).Float64("min", lo).Float64("max", hi).Msg("zone min above max, clamped to max")
		lo = hi
	}
	return lo, hi
}

func (f *Field) promoteMagnitudeType(zoneMax float64) {
	if zoneMax > 0 && f.cfg.MagnitudeType == MagnitudeFixed {
		f.cfg.MagnitudeType = MagnitudeDistanceNear
	}
}

// Swing adds magnitude*sin(2π t/period) to the base magnitude, period 0 disables it
func (f *Field) Swing(magnitude float64, period time.Duration) {
	if period < 0 {
		f.log.Warn().Dur("period", period).Msg("negative swing period disables swing")
		period = 0
	}
	f.cfg.SwingMagnitude = magnitude
	f.cfg.SwingPeriod = period
}

// --- Velocity blending ---

func (f *Field) SetOldVelocityPct(pct float64) {
	f.cfg.OldVelocityPct = f.clampPct("old_velocity_pct", pct)
}

func (f *Field) SetOldVelocityProjPct(pct float64) {
	f.cfg.OldVelocityProjPct = f.clampPct("old_velocity_proj_pct", pct)
}

func (f *Field) SetVelocityCompensationPct(pct float64) {
	f.cfg.VelocityCompensationPct = f.clampPct("velocity_compensation_pct", pct)
}

// SetParentLinearVelocity records the emitter velocity, used only for compensation
func (f *Field) SetParentLinearVelocity(v vmath.Vec3F) {
	f.cfg.ParentLinearVelocity = v
}

func (f *Field) clampPct(key string, pct float64) float64 {
	c := vmath.Clamp01(pct)
	if c != pct {
		f.log.Warn().Float64(key, pct).Float64("clamped", c).Msg("weight outside [0,1]")
	}
	return c
}

// --- Filters ---

// SetPlayerOnly restricts the field to players, clearing monster-only
func (f *Field) SetPlayerOnly(set bool) {
	if set && f.cfg.MonsterOnly {
		f.log.Warn().Msg("player-only overrides monster-only")
		f.cfg.MonsterOnly = false
	}
	f.cfg.PlayerOnly = set
}

// SetMonsterOnly restricts the field to monsters, clearing player-only
func (f *Field) SetMonsterOnly(set bool) {
	if set && f.cfg.PlayerOnly {
		f.log.Warn().Msg("monster-only overrides player-only")
		f.cfg.PlayerOnly = false
	}
	f.cfg.MonsterOnly = set
}

func (f *Field) UseWhitelist(on bool) { f.cfg.UseWhitelist = on }

// ExclusiveMode turns the whitelist into a blacklist
func (f *Field) ExclusiveMode(on bool) { f.cfg.ExclusiveMode = on }

func (f *Field) IgnoreInactiveRagdolls(on bool) { f.cfg.IgnoreInactiveRagdolls = on }

// --- Modes ---

// SetMode2D restricts pushes to the horizontal plane
func (f *Field) SetMode2D(on bool) { f.cfg.Mode2D = on }

// SetWindMode switches to continuous velocity nudging along the uniform direction
func (f *Field) SetWindMode(on bool) { f.cfg.WindMode = on }

// SetWindGust scales wind strength by 1 + amount*noise(t*frequency)
func (f *Field) SetWindGust(amount, frequency float64) {
	f.cfg.WindGust = max(amount, 0)
	if frequency <= 0 {
		frequency = parameter.WindGustDefaultFrequency
	}
	f.cfg.WindGustFrequency = frequency
}

// --- Region ---

// SetClipModel hands ownership of the region to the field, nil disables evaluation
func (f *Field) SetClipModel(c *physics.ClipModel) {
	f.clip = c
}

func (f *Field) ClipModel() *physics.ClipModel { return f.clip }

// SetPosition moves the region without touching any other state
func (f *Field) SetPosition(origin vmath.Vec3F, axis vmath.Mat3) {
	if f.clip == nil {
		return
	}
	f.clip.SetPosition(origin, axis)
}

// --- Whitelist ---

func (f *Field) AddToWhiteList(a engine.Actor) {
	f.whiteList.Add(a.UUID())
}

func (f *Field) RemoveFromWhiteList(a engine.Actor) {
	f.whiteList.Remove(a.UUID())
}

// IsWhiteListed reports membership of a live actor, destroyed actors are never listed
func (f *Field) IsWhiteListed(a engine.Actor) bool {
	id := a.UUID()
	if !f.whiteList.Contains(id) {
		return false
	}
	_, alive := f.space.Lookup(id)
	return alive
}

func (f *Field) ClearWhiteList() {
	f.whiteList.Clear()
}

// WhiteList exposes the identity set, stale identities included
func (f *Field) WhiteList() *WhiteList { return &f.whiteList }
