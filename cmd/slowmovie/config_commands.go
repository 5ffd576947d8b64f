package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"slowmovie/internal/config"
	"slowmovie/internal/settings"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the SlowMovie configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		path      string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(path)
			if err != nil {
				return err
			}
			if err := refuseExisting(target, overwrite); err != nil {
				return err
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Point paths.work_dir at the folder with your movie, then run slowmovie.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Where to write the file (default: the user config directory)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// initTarget resolves --path, falling back to the default config location.
func initTarget(path string) (string, error) {
	if path = strings.TrimSpace(path); path == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(path)
}

func refuseExisting(target string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(target)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("inspect %s: %w", target, err)
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and show the paths it resolves to",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			describeConfig(cmd.OutOrStdout(), cfg, path, exists)
			return nil
		},
	}
}

func describeConfig(out io.Writer, cfg *config.Config, path string, exists bool) {
	source := path
	if !exists {
		source += " (not found, defaults used)"
	}
	movie := cfg.DefaultMoviePath()
	if err := settings.ValidateMovie(afero.NewOsFs(), movie); err != nil {
		movie += " (missing)"
	}
	rows := [][]string{
		{"Config file", source},
		{"Work directory", cfg.Paths.WorkDir},
		{"Settings file", cfg.SettingsPath()},
		{"Frame file", cfg.FramePath()},
		{"Default movie", movie},
		{"Lock", cfg.LockPath()},
		{"Logs", cfg.LogDir()},
	}
	if cfg.History.Enabled {
		rows = append(rows, []string{"History", cfg.History.Path})
	}
	fmt.Fprintln(out, renderTable([]string{"Item", "Path"}, rows, nil))
	fmt.Fprintln(out, "Configuration valid")
}
