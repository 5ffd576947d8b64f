package main

import (
	"github.com/spf13/cobra"

	"slowmovie/internal/daemonrun"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevel string
	var skipConfigurator bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "slowmovie",
		Short:         "Show a movie as your wallpaper, one frame at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:         logLevel,
				SkipConfigurator: skipConfigurator,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&skipConfigurator, "no-configurator", false, "Start cycling without opening the configurator")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newFrameCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newTestAlertCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
