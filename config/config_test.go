package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/vmath"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimal = `
name = "unit"

[[body]]
name = "crate"
position = [1.0, 2.0, 3.0]

[[body]]
name = "hero"
class = "player"

[[field]]
name = "push"
type = "explosion"
apply = "impulse"
magnitude = 500.0
sphere_min = 5.0
sphere_max = 15.0
swing_period = "2s"
whitelist = ["hero"]

[field.clip]
shape = "sphere"
extents = [20.0]
origin = [0.0, 0.0, 1.0]
`

func TestLoadMinimal(t *testing.T) {
	s, err := Load(writeScenario(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "unit", s.Name)
	assert.Equal(t, 60, s.Sim.TickRate)
	assert.Equal(t, time.Second/60, s.Sim.TickInterval())
	require.Len(t, s.Bodies, 2)
	require.Len(t, s.Fields, 1)

	spec, err := s.Bodies[0].Spec()
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec3F{X: 1, Y: 2, Z: 3}, spec.Position)
	assert.Equal(t, engine.ClassNone, spec.Class)
	assert.Equal(t, 1.0, spec.Mass)

	fc, err := s.Fields[0].ForceConfig()
	require.NoError(t, err)
	assert.Equal(t, forcefield.Explosion, fc.Type)
	assert.Equal(t, forcefield.ApplyImpulse, fc.ApplyType)
	assert.Equal(t, 500.0, fc.Magnitude)
	assert.Equal(t, 2*time.Second, fc.SwingPeriod)
	assert.Equal(t, []string{"hero"}, s.Fields[0].WhiteList)

	clip, err := s.Fields[0].ClipModel()
	require.NoError(t, err)
	assert.Equal(t, physics.ShapeSphere, clip.Shape())
	assert.Equal(t, vmath.Vec3F{Z: 1}, clip.Origin())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FORCEFIELD_SIM_TICKS", "5")
	t.Setenv("FORCEFIELD_LOG_LEVEL", "debug")
	s, err := Load(writeScenario(t, minimal))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Sim.Ticks)
	assert.Equal(t, "debug", s.Log.Level)
}

func TestUnknownEnum(t *testing.T) {
	_, err := Load(writeScenario(t, `
[[field]]
name = "bad"
type = "vortex"
`))
	assert.ErrorIs(t, err, ErrUnknownEnum)

	_, err = Load(writeScenario(t, `
[[body]]
name = "x"
class = "wizard"
`))
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestValidateReferences(t *testing.T) {
	cases := map[string]string{
		"whitelist": `
[[field]]
name = "f"
whitelist = ["ghost"]
`,
		"attach": `
[[field]]
name = "f"
attach = "ghost"
`,
		"duplicate body": `
[[body]]
name = "a"
[[body]]
name = "a"
`,
		"short vector": `
[[body]]
name = "a"
position = [1.0, 2.0]
`,
		"tick rate": `
[sim]
tick_rate = 0
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeScenario(t, body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestClipExtentsShorthand(t *testing.T) {
	f := FieldConfig{Name: "c", Clip: ClipConfig{Shape: "cylinder", Extents: []float64{4, 2}, Yaw: 90}}
	clip, err := f.ClipModel()
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec3F{X: 4, Y: 4, Z: 2}, clip.Extents())
	assert.InDelta(t, 0, clip.Axis()[0].X, 1e-12)

	none, err := FieldConfig{Name: "n"}.ClipModel()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDemoScenarioLoads(t *testing.T) {
	s, err := Load(filepath.Join("..", "configs", "demo.toml"))
	require.NoError(t, err)
	assert.Len(t, s.Fields, 4)
	for _, f := range s.Fields {
		_, err := f.ForceConfig()
		assert.NoError(t, err, f.Name)
	}
}
