package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
	"dubforge/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog totals and environment readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				for _, line := range renderSectionHeader("Catalog", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{
						{title: "Assets", numeric: true},
						{title: "Lines", numeric: true},
						{title: "Not translated", numeric: true},
						{title: "Translated", numeric: true},
						{title: "Reviewed", numeric: true},
						{title: "Approved", numeric: true},
						{title: "Recorded", numeric: true},
					},
					[][]string{{
						strconv.Itoa(stats.Assets),
						strconv.Itoa(stats.Lines),
						strconv.Itoa(stats.NotTranslated),
						strconv.Itoa(stats.Translated),
						strconv.Itoa(stats.Reviewed),
						strconv.Itoa(stats.Approved),
						strconv.Itoa(stats.Recorded),
					}},
				))

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Environment", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cfg) {
					kind := statusError
					if result.Passed {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				return nil
			})
		},
	}
}
