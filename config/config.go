// Package config loads TOML scenario files describing bodies, fields and run settings.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/logging"
	"github.com/lixenwraith/forcefield/parameter"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

const EnvPrefix = "FORCEFIELD"

var (
	ErrUnknownEnum = errors.New("config: unknown enum value")
	ErrInvalid     = errors.New("config: invalid scenario")
)

// Scenario is a complete run description
type Scenario struct {
	Name    string          `mapstructure:"name"`
	Log     logging.Options `mapstructure:"log"`
	Sim     SimConfig       `mapstructure:"sim"`
	Storage StorageConfig   `mapstructure:"storage"`
	Fields  []FieldConfig   `mapstructure:"field"`
	Bodies  []BodyConfig    `mapstructure:"body"`
}

type SimConfig struct {
	TickRate int     `mapstructure:"tick_rate"`
	Ticks    int     `mapstructure:"ticks"`
	CellSize float64 `mapstructure:"cell_size"`
	Seed     uint64  `mapstructure:"seed"`
	// LinearDamping is the fraction of velocity lost per second
	LinearDamping float64   `mapstructure:"linear_damping"`
	Gravity       []float64 `mapstructure:"gravity"`
}

// TickInterval is the fixed step length
func (s SimConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ClipConfig places a field region
type ClipConfig struct {
	Shape   string    `mapstructure:"shape"`
	Extents []float64 `mapstructure:"extents"`
	Origin  []float64 `mapstructure:"origin"`
	// Yaw rotates the region about Z, in degrees
	Yaw float64 `mapstructure:"yaw"`
}

type FieldConfig struct {
	Name          string    `mapstructure:"name"`
	Type          string    `mapstructure:"type"`
	Apply         string    `mapstructure:"apply"`
	MagnitudeType string    `mapstructure:"magnitude_type"`
	Magnitude     float64   `mapstructure:"magnitude"`
	Dir           []float64 `mapstructure:"dir"`
	RandomTorque  float64   `mapstructure:"random_torque"`

	SphereMin   float64 `mapstructure:"sphere_min"`
	SphereMax   float64 `mapstructure:"sphere_max"`
	CylinderMin float64 `mapstructure:"cylinder_min"`
	CylinderMax float64 `mapstructure:"cylinder_max"`

	SwingMagnitude float64       `mapstructure:"swing_magnitude"`
	SwingPeriod    time.Duration `mapstructure:"swing_period"`

	OldVelocityPct          float64 `mapstructure:"old_velocity_pct"`
	OldVelocityProjPct      float64 `mapstructure:"old_velocity_proj_pct"`
	VelocityCompensationPct float64 `mapstructure:"velocity_compensation_pct"`

	PlayerOnly             bool     `mapstructure:"player_only"`
	MonsterOnly            bool     `mapstructure:"monster_only"`
	UseWhitelist           bool     `mapstructure:"use_whitelist"`
	ExclusiveMode          bool     `mapstructure:"exclusive"`
	IgnoreInactiveRagdolls bool     `mapstructure:"ignore_inactive_ragdolls"`
	WhiteList              []string `mapstructure:"whitelist"`

	Mode2D            bool    `mapstructure:"mode_2d"`
	Wind              bool    `mapstructure:"wind"`
	WindGust          float64 `mapstructure:"wind_gust"`
	WindGustFrequency float64 `mapstructure:"wind_gust_frequency"`

	Clip ClipConfig `mapstructure:"clip"`
	// Attach names a body the region follows every tick
	Attach string `mapstructure:"attach"`
	Seed   uint64 `mapstructure:"seed"`
}

type BodyConfig struct {
	Name     string    `mapstructure:"name"`
	Class    string    `mapstructure:"class"`
	Position []float64 `mapstructure:"position"`
	Velocity []float64 `mapstructure:"velocity"`
	Mass     float64   `mapstructure:"mass"`
	Radius   float64   `mapstructure:"radius"`
}

// SetDefaults registers every scalar default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("name", "scenario")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("sim.tick_rate", parameter.SimTickRate)
	v.SetDefault("sim.ticks", parameter.SimDefaultTicks)
	v.SetDefault("sim.cell_size", parameter.SimGridCellSize)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.linear_damping", 0.0)
	v.SetDefault("sim.gravity", []float64{0, 0, 0})

	v.SetDefault("storage.path", "forcefield.db")
}

// Load reads a scenario file, FORCEFIELD_ environment variables override scalar keys
func Load(path string) (*Scenario, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %q: %w", path, err)
	}
	return FromViper(v)
}

// FromViper decodes and validates a scenario from a populated viper instance
func FromViper(v *viper.Viper) (*Scenario, error) {
	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks run settings, vectors, enum names and body references
func (s *Scenario) Validate() error {
	if s.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tick_rate must be positive", ErrInvalid)
	}
	if s.Sim.Ticks < 0 {
		return fmt.Errorf("%w: sim.ticks is negative", ErrInvalid)
	}
	if s.Sim.CellSize <= 0 {
		return fmt.Errorf("%w: sim.cell_size must be positive", ErrInvalid)
	}
	if _, err := Vec(s.Sim.Gravity); err != nil {
		return fmt.Errorf("sim.gravity: %w", err)
	}

	bodies := make(map[string]struct{}, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalid, i)
		}
		if _, dup := bodies[b.Name]; dup {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalid, b.Name)
		}
		bodies[b.Name] = struct{}{}
		if _, err := b.Spec(); err != nil {
			return err
		}
	}

	fields := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalid, i)
		}
		if _, dup := fields[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalid, f.Name)
		}
		fields[f.Name] = struct{}{}
		if _, err := f.ForceConfig(); err != nil {
			return err
		}
		if _, err := f.ClipModel(); err != nil {
			return err
		}
		for _, name := range f.WhiteList {
			if _, ok := bodies[name]; !ok {
				return fmt.Errorf("%w: field %q whitelists unknown body %q", ErrInvalid, f.Name, name)
			}
		}
		if _, ok := bodies[f.Attach]; f.Attach != "" && !ok {
			return fmt.Errorf("%w: field %q attached to unknown body %q", ErrInvalid, f.Name, f.Attach)
		}
	}
	return nil
}

// ForceConfig converts the field section to the field's own configuration
func (f FieldConfig) ForceConfig() (forcefield.Config, error) {
	var c forcefield.Config
	var err error
	if c.Type, err = forcefield.ParseFieldType(orDefault(f.Type, "uniform")); err != nil {
		return c, fmt.Errorf("%w: field %q: %v", ErrUnknownEnum, f.Name, err)
	}
	if c.ApplyType, err = forcefield.ParseApplyType(orDefault(f.Apply, "force")); err != nil {
		return c, fmt.Errorf("%w: field %q: %v", ErrUnknownEnum, f.Name, err)
	}
	if c.MagnitudeType, err = forcefield.ParseMagnitudeType(orDefault(f.MagnitudeType, "fixed")); err != nil {
		return c, fmt.Errorf("%w: field %q: %v", ErrUnknownEnum, f.Name, err)
	}
	dir, err := Vec(f.Dir)
	if err != nil {
		return c, fmt.Errorf("field %q dir: %w", f.Name, err)
	}
	if c.Type == forcefield.Uniform {
		// Uniform takes direction times magnitude, the setter splits them again
		c.Dir, _ = vmath.V3FNormalizeSafe(dir)
	}
	c.Magnitude = f.Magnitude
	c.RandomTorque = f.RandomTorque
	c.SphereMin, c.SphereMax = f.SphereMin, f.SphereMax
	c.CylinderMin, c.CylinderMax = f.CylinderMin, f.CylinderMax
	c.SwingMagnitude, c.SwingPeriod = f.SwingMagnitude, f.SwingPeriod
	c.OldVelocityPct = f.OldVelocityPct
	c.OldVelocityProjPct = f.OldVelocityProjPct
	c.VelocityCompensationPct = f.VelocityCompensationPct
	c.PlayerOnly, c.MonsterOnly = f.PlayerOnly, f.MonsterOnly
	c.UseWhitelist, c.ExclusiveMode = f.UseWhitelist, f.ExclusiveMode
	c.IgnoreInactiveRagdolls = f.IgnoreInactiveRagdolls
	c.Mode2D, c.WindMode = f.Mode2D, f.Wind
	c.WindGust, c.WindGustFrequency = f.WindGust, f.WindGustFrequency
	return c, nil
}

// ClipModel builds the placed region, nil when no shape is given
func (f FieldConfig) ClipModel() (*physics.ClipModel, error) {
	if f.Clip.Shape == "" {
		return nil, nil
	}
	shape, err := physics.ParseShape(f.Clip.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrUnknownEnum, f.Name, err)
	}
	ext, err := clipExtents(shape, f.Clip.Extents)
	if err != nil {
		return nil, fmt.Errorf("field %q clip extents: %w", f.Name, err)
	}
	origin, err := Vec(f.Clip.Origin)
	if err != nil {
		return nil, fmt.Errorf("field %q clip origin: %w", f.Name, err)
	}
	clip := physics.NewClipModel(shape, ext)
	axis := vmath.Identity3
	if f.Clip.Yaw != 0 {
		axis = vmath.M3RotationZ(f.Clip.Yaw * math.Pi / 180)
	}
	clip.SetPosition(origin, axis)
	return clip, nil
}

// clipExtents accepts a single radius for spheres and radius, half height for cylinders
func clipExtents(shape physics.Shape, v []float64) (vmath.Vec3F, error) {
	switch {
	case shape == physics.ShapeSphere && len(v) == 1:
		return vmath.Vec3F{X: v[0], Y: v[0], Z: v[0]}, nil
	case shape == physics.ShapeCylinder && len(v) == 2:
		return vmath.Vec3F{X: v[0], Y: v[0], Z: v[1]}, nil
	case len(v) == 3:
		return vmath.Vec3F{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return vmath.Vec3F{}, fmt.Errorf("%w: %d values for %s", ErrInvalid, len(v), shape)
	}
}

// Spec converts a body section to spawn inputs
func (b BodyConfig) Spec() (BodySpec, error) {
	class, err := engine.ParseClass(b.Class)
	if err != nil {
		return BodySpec{}, fmt.Errorf("%w: body %q: %v", ErrUnknownEnum, b.Name, err)
	}
	pos, err := Vec(b.Position)
	if err != nil {
		return BodySpec{}, fmt.Errorf("body %q position: %w", b.Name, err)
	}
	vel, err := Vec(b.Velocity)
	if err != nil {
		return BodySpec{}, fmt.Errorf("body %q velocity: %w", b.Name, err)
	}
	spec := BodySpec{
		Name:     b.Name,
		Class:    class,
		Position: pos,
		Velocity: vel,
		Mass:     orDefaultFloat(b.Mass, parameter.SimDefaultBodyMass),
		Radius:   orDefaultFloat(b.Radius, parameter.SimDefaultBodyRadius),
	}
	if spec.Radius < 0 {
		return BodySpec{}, fmt.Errorf("%w: body %q has negative radius", ErrInvalid, b.Name)
	}
	return spec, nil
}

// BodySpec is a decoded body section
type BodySpec struct {
	Name     string
	Class    engine.Class
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	// Mass below zero makes the body static
	Mass   float64
	Radius float64
}

// Vec converts an empty or three element list to a vector
func Vec(v []float64) (vmath.Vec3F, error) {
	switch len(v) {
	case 0:
		return vmath.Vec3F{}, nil
	case 3:
		out := vmath.Vec3F{X: v[0], Y: v[1], Z: v[2]}
		if !vmath.V3FIsFinite(out) {
			return vmath.Vec3F{}, fmt.Errorf("%w: non-finite vector", ErrInvalid)
		}
		return out, nil
	default:
		return vmath.Vec3F{}, fmt.Errorf("%w: vector needs 3 values, got %d", ErrInvalid, len(v))
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
