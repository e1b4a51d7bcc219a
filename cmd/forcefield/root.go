package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/forcefield/config"
	"github.com/lixenwraith/forcefield/logging"
	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/status"
	"github.com/lixenwraith/forcefield/storage"
)

const defaultScenario = "configs/demo.toml"

// app carries state set up by the root pre-run hook
type app struct {
	cfgPath string
	dbPath  string
	debug   bool

	scn    *config.Scenario
	log    zerolog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "forcefield",
		Short:         "Run force field scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				a.closer.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", defaultScenario, "scenario file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "save slot database (default from scenario)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging to stderr")

	root.AddCommand(
		newRunCmd(a),
		newSlotsCmd(a),
		newRestoreCmd(a),
		newSandboxCmd(a),
	)
	return root
}

// init loads the scenario and builds the logger from its [log] table
func (a *app) init(cmd *cobra.Command) error {
	scn, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.scn = scn

	if err := a.setupLogging(cmd.ErrOrStderr(), true); err != nil {
		return err
	}

	if a.dbPath == "" {
		a.dbPath = scn.Storage.Path
	}
	a.log.Debug().Str("config", a.cfgPath).Str("db", a.dbPath).Msg("initialized")
	return nil
}

// build creates a fresh simulation and its status registry
func (a *app) build() (*sim.Simulation, *status.Registry, error) {
	reg := status.NewRegistry()
	s, err := sim.FromScenario(a.scn, reg, a.log, nil)
	if err != nil {
		return nil, nil, err
	}
	return s, reg, nil
}

// setupLogging (re)builds the logger, console false keeps the terminal clean for the sandbox
func (a *app) setupLogging(stderr io.Writer, console bool) error {
	opts := a.scn.Log
	if a.debug {
		opts.Level = "debug"
		opts.Console = true
	}
	opts.Console = opts.Console && console

	log, closer, err := logging.New(opts, stderr)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if a.closer != nil {
		a.closer.Close()
	}
	a.log = log.With().Str("scenario", a.scn.Name).Logger()
	a.closer = closer
	return nil
}

func (a *app) openStore() (*storage.Store, error) {
	return storage.Open(a.dbPath, a.log)
}
