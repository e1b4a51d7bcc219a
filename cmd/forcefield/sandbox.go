package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/forcefield/audio"
	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/sim"
)

const sandboxSlot = "sandbox"

func newSandboxCmd(a *app) *cobra.Command {
	var (
		slot string
		mute bool
	)
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Watch the scenario in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupLogging(cmd.ErrOrStderr(), false); err != nil {
				return err
			}
			s, reg, err := a.build()
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			cues := audio.NewCuePlayer(a.log)
			if !mute {
				if err := cues.Init(); err != nil {
					// Non-fatal, the sandbox runs silent
					a.log.Warn().Err(err).Msg("audio initialization failed")
				}
			}
			defer cues.Close()
			s.OnTick(impulseCues(cues))

			sb := &sandbox{app: a, sim: s, screen: screen, slot: slot}
			sb.view = newView(screen.Size())
			sb.hud = func() []string {
				return []string{
					fmt.Sprintf("%s  tick %s  t=%s%s", a.scn.Name, humanize.Comma(s.Tick()), s.Now().Round(time.Millisecond), sb.pausedTag()),
					sb.message,
				}
			}
			sb.drawFn = func() { sb.view.draw(screen, s, reg, sb.hud()) }
			sb.loop(cmd)
			return nil
		},
	}
	cmd.Flags().StringVar(&slot, "slot", sandboxSlot, "slot used by the save and restore keys")
	cmd.Flags().BoolVar(&mute, "mute", false, "disable audio cues")
	return cmd
}

// impulseCues plays a cue on ticks where an impulse field hit something
func impulseCues(p *audio.CuePlayer) func(sim.TickReport) {
	return func(r sim.TickReport) {
		for _, fr := range r.Fields {
			if fr.Apply != forcefield.ApplyImpulse || fr.Stats.Applied == 0 {
				continue
			}
			p.Play(float64(fr.Stats.Applied) / 4)
		}
	}
}

type sandbox struct {
	app    *app
	sim    *sim.Simulation
	screen tcell.Screen
	view   *view
	slot   string

	paused  bool
	message string
	hud     func() []string
	drawFn  func()
}

func (sb *sandbox) pausedTag() string {
	if sb.paused {
		return "  [paused]"
	}
	return ""
}

func (sb *sandbox) loop(cmd *cobra.Command) {
	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := sb.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	ticker := time.NewTicker(sb.sim.TickInterval())
	defer ticker.Stop()

	ctx := cmd.Context()
	sb.drawFn()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !sb.handleEvent(cmd, ev) {
				return
			}
			sb.drawFn()
		case <-ticker.C:
			if sb.paused {
				continue
			}
			sb.sim.Step()
			sb.drawFn()
		}
	}
}

// handleEvent returns false when the sandbox should exit
func (sb *sandbox) handleEvent(cmd *cobra.Command, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		sb.view.resize(sb.screen.Size())
		sb.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			sb.view.pan(-4, 0)
		case tcell.KeyRight:
			sb.view.pan(4, 0)
		case tcell.KeyUp:
			sb.view.pan(0, 2)
		case tcell.KeyDown:
			sb.view.pan(0, -2)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				sb.paused = !sb.paused
			case '.':
				if sb.paused {
					sb.sim.Step()
				}
			case '+', '=':
				sb.view.zoom(1.25)
			case '-':
				sb.view.zoom(0.8)
			case 's':
				if _, err := sb.app.saveSlot(cmd.Context(), sb.sim, sb.slot); err != nil {
					sb.message = "save failed: " + err.Error()
				} else {
					sb.message = "saved " + sb.slot + " at tick " + humanize.Comma(sb.sim.Tick())
				}
			case 'r':
				if _, err := sb.app.loadSlot(cmd.Context(), sb.sim, sb.slot); err != nil {
					sb.message = "restore failed: " + err.Error()
				} else {
					sb.message = "restored " + sb.slot + " at tick " + humanize.Comma(sb.sim.Tick())
				}
			}
		}
	}
	return true
}
