package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSlotsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			slots, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(out, "no save slots")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLOT\tSCENARIO\tTICK\tSIM TIME\tSIZE\tSAVED")
			for _, s := range slots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Name, s.Scenario,
					humanize.Comma(s.Tick),
					s.SimTime,
					humanize.Bytes(uint64(s.Size)),
					humanize.Time(s.UpdatedAt),
				)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete SLOT...",
		Short: "Delete save slots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, name := range args {
				if err := store.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("slot %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			}
			return nil
		},
	})
	return cmd
}
