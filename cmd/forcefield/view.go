package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/status"
	"github.com/lixenwraith/forcefield/vmath"
)

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRegion  = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleActive  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMonster = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleRagdoll = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleProp    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// view is a top-down camera over the XY plane
// Terminal cells are about twice as tall as wide, so X is stretched by two
type view struct {
	center vmath.Vec3F
	scale  float64 // rows per world unit
	width  int
	height int
}

func newView(w, h int) *view {
	return &view{scale: 0.5, width: w, height: h}
}

func (v *view) resize(w, h int) { v.width, v.height = w, h }

func (v *view) zoom(f float64) {
	v.scale = min(max(v.scale*f, 0.05), 8)
}

func (v *view) pan(dx, dy float64) {
	v.center.X += dx / v.scale
	v.center.Y += dy / v.scale
}

// cell maps a world point to a screen cell
func (v *view) cell(p vmath.Vec3F) (int, int) {
	x := float64(v.width)/2 + (p.X-v.center.X)*v.scale*2
	y := float64(v.height)/2 - (p.Y-v.center.Y)*v.scale
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v *view) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.width && y < v.height
}

func (v *view) put(s tcell.Screen, p vmath.Vec3F, r rune, style tcell.Style) {
	x, y := v.cell(p)
	if v.inside(x, y) {
		s.SetContent(x, y, r, nil, style)
	}
}

// drawRegion outlines a clip model's footprint on the XY plane
func (v *view) drawRegion(s tcell.Screen, clip *physics.ClipModel, active bool) {
	style := styleRegion
	if active {
		style = styleActive
	}
	o := clip.Origin()
	ext := clip.Extents()

	switch clip.Shape() {
	case physics.ShapeBox:
		axis := clip.Axis()
		corner := func(sx, sy float64) vmath.Vec3F {
			local := vmath.Vec3F{X: sx * ext.X, Y: sy * ext.Y}
			return vmath.V3FAdd(o, vmath.M3ToWorld(axis, local))
		}
		c := [4]vmath.Vec3F{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
		for i := range c {
			v.line(s, c[i], c[(i+1)%4], '·', style)
		}
	default:
		// sphere and cylinder both project to a circle of the first extent
		r := ext.X
		steps := max(16, int(r*v.scale*12))
		for i := range steps {
			a := 2 * math.Pi * float64(i) / float64(steps)
			v.put(s, vmath.Vec3F{X: o.X + r*math.Cos(a), Y: o.Y + r*math.Sin(a)}, '·', style)
		}
	}
	v.put(s, o, '+', style)
}

func (v *view) line(s tcell.Screen, a, b vmath.Vec3F, r rune, style tcell.Style) {
	ax, ay := v.cell(a)
	bx, by := v.cell(b)
	n := max(abs(bx-ax), abs(by-ay), 1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		v.put(s, vmath.V3FAdd(a, vmath.V3FScale(vmath.V3FSub(b, a), t)), r, style)
	}
}

func glyph(c engine.Class) (rune, tcell.Style) {
	switch {
	case c.Has(engine.ClassPlayer):
		return '@', stylePlayer
	case c.Has(engine.ClassRagdoll):
		return '%', styleRagdoll
	case c.Has(engine.ClassMonster):
		return 'M', styleMonster
	default:
		return 'o', styleProp
	}
}

// draw renders regions, bodies and the HUD
func (v *view) draw(s tcell.Screen, sm *sim.Simulation, reg *status.Registry, hud []string) {
	s.Clear()

	active := make(map[string]bool)
	for _, fr := range sm.LastReport().Fields {
		active[fr.Name] = fr.Stats.Applied > 0
	}
	for _, f := range sm.Fields() {
		if clip := f.ClipModel(); clip != nil {
			v.drawRegion(s, clip, active[f.Name()])
		}
	}

	for _, e := range sm.World().Entities() {
		body := e.Physics()
		if body == nil {
			continue
		}
		r, style := glyph(e.Class())
		if rb, ok := body.(*physics.RigidBody); ok && rb.IsAtRest() {
			style = style.Dim(true)
		}
		v.put(s, body.Origin(), r, style)
	}

	row := 0
	for _, line := range hud {
		drawText(s, 0, row, line, styleHUD)
		row++
	}
	if reg != nil {
		for _, smp := range reg.Snapshot() {
			drawText(s, 0, row, fmt.Sprintf("%-18s %s", smp.Key, smp.Value), styleHUD)
			row++
		}
	}
	drawText(s, 0, v.height-1, "q quit  space pause  . step  s save  r restore  +/- zoom  arrows pan", styleHelp)
	s.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
