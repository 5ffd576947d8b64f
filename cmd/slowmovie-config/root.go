package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"slowmovie/internal/config"
	"slowmovie/internal/configform"
	"slowmovie/internal/logging"
	"slowmovie/internal/settings"
)

type options struct {
	configPath   string
	settingsPath string
	movie        string
	interval     uint32
	unit         string
	start        string
	exit         bool
	show         bool
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newRootCommand(interactive func() bool) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "slowmovie-config",
		Short:         "Choose the movie and interval for SlowMovie",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			edits := cmd.Flags().Changed("movie") || cmd.Flags().Changed("interval") ||
				cmd.Flags().Changed("unit") || cmd.Flags().Changed("start") || opts.exit

			switch {
			case opts.show:
				printSettings(out, store)
				return nil
			case edits:
				changes, err := flagChanges(cmd, opts)
				if err != nil {
					return err
				}
				if _, err := changes.Save(store); err != nil {
					return err
				}
				printSettings(out, store)
				return nil
			case interactive != nil && interactive():
				return runForm(cmd, store)
			default:
				fmt.Fprintln(out, "No changes requested and no terminal for the form; current settings:")
				printSettings(out, store)
				return nil
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "SlowMovie configuration file path")
	flags.StringVar(&opts.settingsPath, "settings", "", "Settings file to edit (default: from configuration)")
	flags.StringVar(&opts.movie, "movie", "", "Movie file to cycle")
	flags.Uint32Var(&opts.interval, "interval", settings.DefaultIntervalValue, "Time between frames, in --unit")
	flags.StringVar(&opts.unit, "unit", "", "Interval unit: second, minute, or hour")
	flags.StringVar(&opts.start, "start", "", "Start offset into the movie (seconds, mm:ss, or hh:mm:ss)")
	flags.BoolVar(&opts.exit, "exit", false, "Ask the running scheduler to stop")
	flags.BoolVar(&opts.show, "show", false, "Print the current settings and exit")
	return cmd
}

func openStore(opts options) (*settings.Store, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(opts.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	path := cfg.SettingsPath()
	if p := strings.TrimSpace(opts.settingsPath); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("resolve settings path: %w", err)
		}
		path = expanded
	}
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		return nil, err
	}
	return settings.NewStore(afero.NewOsFs(), path, cfg.DefaultMoviePath(), logger), nil
}

// flagChanges collects the command-line edits. Any edit other than --exit
// clears the exit flag when saved, matching the form's confirm.
func flagChanges(cmd *cobra.Command, opts options) (configform.Changes, error) {
	if opts.exit {
		return configform.Changes{Exit: true}, nil
	}
	var c configform.Changes
	flags := cmd.Flags()

	if flags.Changed("movie") {
		movie := strings.TrimSpace(opts.movie)
		if err := settings.ValidateMovie(afero.NewOsFs(), movie); err != nil {
			return c, err
		}
		c.Movie = &movie
	}
	if flags.Changed("interval") {
		interval := opts.interval
		c.Interval = &interval
	}
	if flags.Changed("unit") {
		unit, err := settings.ParseUnit(opts.unit)
		if err != nil {
			return c, err
		}
		c.Unit = &unit
	}
	if flags.Changed("start") {
		seconds, err := configform.ParseOffset(opts.start)
		if err != nil {
			return c, err
		}
		frame := settings.FrameForOffset(seconds)
		c.Frame = &frame
	}
	return c, nil
}

func runForm(cmd *cobra.Command, store *settings.Store) error {
	check := func(path string) error {
		return settings.ValidateMovie(afero.NewOsFs(), path)
	}
	outcome, changes, err := configform.Run(cmd.Context(), store.Load(), check, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return saveOutcome(cmd.OutOrStdout(), store, outcome, changes)
}

// saveOutcome persists the form's edits over the latest stored settings, so
// frames published while the form was open are not rewound.
func saveOutcome(out io.Writer, store configform.Updater, outcome configform.Outcome, changes configform.Changes) error {
	switch outcome {
	case configform.Confirmed, configform.Exit:
		if _, err := changes.Save(store); err != nil {
			return err
		}
	default:
		fmt.Fprintln(out, "No changes made")
		return nil
	}
	if outcome == configform.Exit {
		fmt.Fprintln(out, "SlowMovie will stop")
	} else {
		fmt.Fprintln(out, "Settings saved")
	}
	return nil
}

func printSettings(out io.Writer, store *settings.Store) {
	st := store.Load()
	unit := st.IntervalUnit.String()
	fmt.Fprintf(out, "settings:  %s\n", store.Path())
	fmt.Fprintf(out, "movie:     %s\n", st.MoviePath)
	fmt.Fprintf(out, "interval:  %d %s\n", st.IntervalValue, unit)
	fmt.Fprintf(out, "frame:     %s\n", strconv.FormatUint(st.FrameIndex, 10))
	fmt.Fprintf(out, "exit:      %t\n", st.ExitRequested)
}
