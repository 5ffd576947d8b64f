package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slowmovie/internal/config"
	"slowmovie/internal/logging"
)

func TestConsoleLoggerFormatsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "scheduler").Info("frame published",
		logging.Uint64(logging.FieldFrameIndex, 42),
		logging.String(logging.FieldMovie, "/tmp/my movie.mp4"),
	)
	logger.Debug("hidden")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO scheduler: frame published", "frame_index=42", `movie="/tmp/my movie.mp4"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesRunFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, logPath, err := logging.NewFromConfig(&cfg, "abc")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logPath != filepath.Join(cfg.LogDir(), "slowmovie-abc.log") {
		t.Fatalf("unexpected log path: %q", logPath)
	}
	logger.Error("tool failed", logging.String(logging.FieldErrorKind, "tool_execution"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", content, err)
	}
	if record["run_id"] != "abc" || record["error_kind"] != "tool_execution" || record["level"] != "error" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "wallpaper not applied", "wallpaper_failed",
		logging.String(logging.FieldImpact, "frame index not advanced"))

	content, _ := os.ReadFile(logPath)
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["event_type"] != "wallpaper_failed" || record["error_hint"] == nil {
		t.Fatalf("expected injected fields, got %v", record)
	}
	if record["impact"] != "frame index not advanced" {
		t.Fatalf("expected caller impact to win, got %v", record["impact"])
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "frame count failed", "frame_count_failed",
		logging.String(logging.FieldErrorHint, "install ffprobe"))
	logging.ErrorWithContext(nil, "ignored", "ignored")

	content, _ := os.ReadFile(logPath)
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["error_hint"] != "install ffprobe" || record["event_type"] != "frame_count_failed" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["impact"]; ok {
		t.Fatalf("errors carry no default impact, got %v", record)
	}
}

func TestPruneRunLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "slowmovie-old.log")
	current := filepath.Join(dir, "slowmovie-current.log")
	fresh := filepath.Join(dir, "slowmovie-fresh.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, current, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -10)
	for _, path := range []string{old, current, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	if removed := logging.PruneRunLogs(logging.NewNop(), dir, 5, current); removed != 1 {
		t.Fatalf("expected one file removed, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected old log removed")
	}
	for _, path := range []string{current, fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
	if removed := logging.PruneRunLogs(nil, dir, 0, ""); removed != 0 {
		t.Fatal("expected retention 0 to disable pruning")
	}
}
