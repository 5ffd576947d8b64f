package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"slowmovie/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent frame cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled (history.enabled = false)")
				return nil
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			journal, err := history.Open(cmd.Context(), cfg.History.Path, cfg.History.Keep)
			if err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No cycles recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.ErrorMessage
				if e.ErrorKind != "" {
					detail = fmt.Sprintf("%s: %s", e.ErrorKind, e.ErrorMessage)
				}
				rows = append(rows, []string{
					e.At.Local().Format(time.DateTime),
					string(e.Outcome),
					formatFrame(e.FrameIndex, e.FrameTotal),
					movieLabel(e.MoviePath),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Outcome", "Frame", "Movie", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of cycles to show")
	return cmd
}
