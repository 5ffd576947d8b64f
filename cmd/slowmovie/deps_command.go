package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slowmovie/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external programs SlowMovie needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			reportDependencies(newReport(cmd.OutOrStdout()), statuses)

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			return nil
		},
	}
}
