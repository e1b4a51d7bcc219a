package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/forcefield/config"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/status"
)

const demoPath = "../../configs/demo.toml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", demoPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRunSaveListRestoreDelete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "slots.db")

	out, err := execute(t, "--db", db, "run", "--ticks", "30", "--save", "checkpoint")
	require.NoError(t, err)
	assert.Contains(t, out, "demo: 30 ticks to tick 30")
	assert.Contains(t, out, "grenade")
	assert.Contains(t, out, "impulse")
	assert.Contains(t, out, "sim.ticks")

	out, err = execute(t, "--db", db, "slots")
	require.NoError(t, err)
	assert.Contains(t, out, "checkpoint")
	assert.Contains(t, out, "demo")

	out, err = execute(t, "--db", db, "restore", "checkpoint", "--ticks", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "10 ticks to tick 40")

	out, err = execute(t, "--db", db, "slots", "delete", "checkpoint")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted checkpoint")

	out, err = execute(t, "--db", db, "slots")
	require.NoError(t, err)
	assert.Contains(t, out, "no save slots")
}

func TestRestoreMissingSlot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "slots.db")
	_, err := execute(t, "--db", db, "restore", "nope")
	assert.Error(t, err)
}

func TestBadConfigFails(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "run"})
	assert.Error(t, root.Execute())
}

func TestSummaryAccumulatesFieldStats(t *testing.T) {
	sum := newSummary()
	for i := range 3 {
		sum.observe(sim.TickReport{
			Tick: int64(i + 1),
			Fields: []sim.FieldReport{
				{Name: "fan", Apply: forcefield.ApplyVelocity, Stats: forcefield.Stats{Candidates: 2, Applied: 2}},
				{Name: "grenade", Apply: forcefield.ApplyImpulse, Stats: forcefield.Stats{Candidates: 1, Filtered: 1}},
			},
		})
	}

	require.Len(t, sum.fields, 2)
	assert.Equal(t, 6, sum.fields[0].Applied)
	assert.Equal(t, 3, sum.fields[1].Filtered)

	var buf bytes.Buffer
	sum.write(&buf, "demo", 3, nil)
	assert.Contains(t, buf.String(), "demo: 3 ticks")
	assert.Contains(t, buf.String(), "velocity")
}

func TestViewDrawsBodiesAndRegions(t *testing.T) {
	scn, err := config.Load(demoPath)
	require.NoError(t, err)
	s, err := sim.FromScenario(scn, status.NewRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 40)

	v := newView(80, 40)
	v.draw(screen, s, nil, []string{"hud"})

	// player at (0,-6): column 40, row 20+3
	r, _, _, _ := screen.GetContent(40, 23)
	assert.Equal(t, '@', r)
	// grenade region centre
	r, _, _, _ = screen.GetContent(40, 20)
	assert.Equal(t, '+', r)
	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, 'h', r)
}

func TestViewZoomIsBounded(t *testing.T) {
	v := newView(10, 10)
	for range 50 {
		v.zoom(2)
	}
	assert.Equal(t, 8.0, v.scale)
	for range 100 {
		v.zoom(0.5)
	}
	assert.Equal(t, 0.05, v.scale)
}
