package main

import (
	"github.com/spf13/cobra"
)

func newRestoreCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "restore SLOT",
		Short: "Resume a saved slot and keep running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, reg, err := a.build()
			if err != nil {
				return err
			}
			slot, err := a.loadSlot(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			a.log.Info().Str("slot", slot.Name).Int64("tick", slot.Tick).Msg("resuming")
			return a.runAndReport(cmd, s, reg, flags)
		},
	}
	flags.bind(cmd)
	return cmd
}
