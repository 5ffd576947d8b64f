package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slowmovie/internal/alert"
	"slowmovie/internal/logging"
)

func newTestAlertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-alert",
		Short: "Send a test alert through the configured channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			notifier := alert.New(cfg, logging.NewNop())
			if _, ok := notifier.(alert.Noop); ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No alert channels enabled (alerts.desktop and alerts.ntfy_topic)")
				return nil
			}
			if err := notifier.Alert(cmd.Context(), alert.Title, "Test alert from SlowMovie"); err != nil {
				return fmt.Errorf("send test alert: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test alert sent")
			return nil
		},
	}
}
