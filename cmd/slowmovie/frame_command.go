package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"slowmovie/internal/logging"
	"slowmovie/internal/settings"
	"slowmovie/internal/wallpaper"
)

func newFrameCommand(ctx *commandContext) *cobra.Command {
	var index uint64
	var outPath string
	var moviePath string
	var apply bool

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Extract a single frame without touching the schedule",
		Long: "Extract one frame from the configured movie (or --movie) to --out.\n" +
			"Without --index the frame currently on the wallpaper is extracted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st := ctx.settingsStore(cfg).Load()

			movie := strings.TrimSpace(moviePath)
			if movie == "" {
				movie = st.MoviePath
			}
			if err := settings.ValidateMovie(afero.NewOsFs(), movie); err != nil {
				return err
			}
			if !cmd.Flags().Changed("index") {
				index = st.FrameIndex
			}

			target := strings.TrimSpace(outPath)
			if target == "" {
				target = fmt.Sprintf("frame-%d.png", index)
			}
			target, err = filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			if err := newGateway(cfg).ExtractFrame(cmd.Context(), movie, index, target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote frame %d of %s to %s\n", index, movieLabel(movie), target)

			if apply {
				setter := wallpaper.New(cfg.Wallpaper.Command, logging.NewNop())
				if err := setter.Set(cmd.Context(), target); err != nil {
					return err
				}
				fmt.Fprintln(out, "Wallpaper updated")
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&index, "index", 0, "Zero-based frame index (default: current frame)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PNG path (default: frame-<index>.png)")
	cmd.Flags().StringVar(&moviePath, "movie", "", "Movie to read instead of the configured one")
	cmd.Flags().BoolVar(&apply, "apply", false, "Also set the extracted frame as the wallpaper")
	return cmd
}
