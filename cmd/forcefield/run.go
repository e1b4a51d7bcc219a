package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/status"
)

type runFlags struct {
	ticks int
	save  string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.ticks, "ticks", "n", 0, "ticks to run (default from scenario)")
	cmd.Flags().StringVarP(&f.save, "save", "s", "", "store the final state in this slot")
}

func newRunCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario headless and print a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, reg, err := a.build()
			if err != nil {
				return err
			}
			return a.runAndReport(cmd, s, reg, flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

// runAndReport runs s until done or interrupted, then reports and optionally saves
// An interrupted run still reports and saves what it reached
func (a *app) runAndReport(cmd *cobra.Command, s *sim.Simulation, reg *status.Registry, flags runFlags) error {
	ticks := flags.ticks
	if ticks <= 0 {
		ticks = a.scn.Sim.Ticks
	}

	sum := newSummary()
	s.OnTick(sum.observe)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := s.Run(ctx, ticks)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	sum.write(cmd.OutOrStdout(), a.scn.Name, s.Tick(), reg)

	if flags.save != "" {
		// the run context may be cancelled already
		if _, err := a.saveSlot(context.WithoutCancel(ctx), s, flags.save); err != nil {
			return err
		}
	}
	return nil
}
