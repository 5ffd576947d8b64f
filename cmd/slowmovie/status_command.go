package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"slowmovie/internal/config"
	"slowmovie/internal/deps"
	"slowmovie/internal/history"
	"slowmovie/internal/preflight"
	"slowmovie/internal/scheduler"
	"slowmovie/internal/settings"
	"slowmovie/internal/singleton"
)

const statusProbeTimeout = 15 * time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show scheduler, settings, and dependency status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			r := newReport(cmd.OutOrStdout())

			reportScheduler(r, cfg)
			r.gap()
			reportSettings(cmd.Context(), r, cfg, ctx.settingsStore(cfg).Load())
			r.gap()
			reportDependencies(r, deps.CheckBinaries(deps.Requirements(cfg)))
			r.gap()
			reportPreflight(r, preflight.RunAll(cmd.Context(), cfg))
			if cfg.History.Enabled {
				r.gap()
				reportHistory(cmd.Context(), r, cfg)
			}
			return nil
		},
	}
}

func reportScheduler(r *report, cfg *config.Config) {
	r.section("Scheduler")
	held, err := singleton.Probe(cfg.Lock.Dir, cfg.Lock.Name)
	switch {
	case err != nil:
		r.check("Scheduler", verdictFail, err.Error())
	case held:
		r.check("Scheduler", verdictOK, "Running")
	default:
		r.check("Scheduler", verdictInfo, "Not running")
	}
	r.check("Lock", verdictInfo, singleton.LockPath(cfg.Lock.Dir, cfg.Lock.Name))
	r.check("Settings", verdictInfo, cfg.SettingsPath())
}

func reportSettings(cmdCtx context.Context, r *report, cfg *config.Config, st settings.Settings) {
	r.section("Settings")

	rows := [][]string{
		{"Movie", st.MoviePath},
		{"Interval", formatInterval(st)},
		{"Current frame", formatFrame(st.FrameIndex, 0)},
		{"Next frame", describeNextFrame(cmdCtx, cfg, st)},
		{"Exit requested", yesNo(st.ExitRequested)},
	}
	fmt.Fprintln(r.out, renderTable([]string{"Setting", "Value"}, rows, nil))
}

func describeNextFrame(cmdCtx context.Context, cfg *config.Config, st settings.Settings) string {
	if err := settings.ValidateMovie(afero.NewOsFs(), st.MoviePath); err != nil {
		return "unknown (movie unavailable)"
	}
	probeCtx, cancel := context.WithTimeout(cmdCtx, statusProbeTimeout)
	defer cancel()
	total, err := newGateway(cfg).QueryFrameCount(probeCtx, st.MoviePath)
	if err != nil {
		return fmt.Sprintf("unknown (%v)", err)
	}
	next, err := scheduler.NextFrame(st.FrameIndex, total)
	if err != nil {
		return fmt.Sprintf("unknown (%v)", err)
	}
	return formatFrame(next, total)
}

func reportDependencies(r *report, statuses []deps.Status) {
	r.section("Dependencies")
	for _, status := range statuses {
		kind := verdictOK
		message := status.Command
		if !status.Available {
			kind = verdictFail
			if status.Optional {
				kind = verdictWarn
			}
			message = status.Detail
		}
		r.check(status.Name, kind, message)
	}
}

func reportPreflight(r *report, results []preflight.Result) {
	r.section("Preflight")
	for _, result := range results {
		kind := verdictOK
		if !result.Passed {
			kind = verdictFail
		}
		r.check(result.Name, kind, result.Detail)
	}
}

func reportHistory(cmdCtx context.Context, r *report, cfg *config.Config) {
	r.section("History")
	journal, err := history.Open(cmdCtx, cfg.History.Path, cfg.History.Keep)
	if err != nil {
		r.check("Journal", verdictWarn, err.Error())
		return
	}
	defer journal.Close()

	summary, err := journal.Summarize(cmdCtx)
	if err != nil {
		r.check("Journal", verdictWarn, err.Error())
		return
	}
	counts := fmt.Sprintf("%d cycles: %d published, %d wallpaper failures, %d failed",
		summary.Total, summary.Published, summary.WallpaperFailed, summary.Failed)
	r.check("Cycles", verdictInfo, counts)
	if last := summary.Last; last != nil {
		kind := verdictOK
		if last.Outcome != history.OutcomePublished {
			kind = verdictWarn
		}
		detail := fmt.Sprintf("%s %s frame %s", last.At.Local().Format(time.DateTime), strings.ReplaceAll(string(last.Outcome), "_", " "), formatFrame(last.FrameIndex, last.FrameTotal))
		r.check("Last cycle", kind, detail)
	}
}
