package preflight

import (
	"context"
	"strings"

	"slowmovie/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The ntfy check only runs when a topic is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Lock directory", lockDir(cfg)),
	}
	if topic := strings.TrimSpace(cfg.Alerts.NtfyTopic); topic != "" {
		results = append(results, CheckNtfy(ctx, topic))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func lockDir(cfg *config.Config) string {
	if dir := strings.TrimSpace(cfg.Lock.Dir); dir != "" {
		return dir
	}
	return config.Default().Lock.Dir
}
