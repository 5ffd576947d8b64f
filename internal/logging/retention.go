package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const runLogPattern = "slowmovie*.log"

// PruneRunLogs removes run log files in dir older than retentionDays and
// returns how many were deleted. The file at current is never removed. A
// retentionDays value of 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, current string) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	return pruneBefore(logger, dir, time.Now().AddDate(0, 0, -retentionDays), current)
}

func pruneBefore(logger *slog.Logger, dir string, cutoff time.Time, current string) int {
	matches, err := filepath.Glob(filepath.Join(dir, runLogPattern))
	if err != nil {
		return 0
	}
	keep, _ := filepath.Abs(current)

	removed := 0
	for _, path := range matches {
		if abs, err := filepath.Abs(path); err == nil && abs == keep {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check file permissions on the state directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
