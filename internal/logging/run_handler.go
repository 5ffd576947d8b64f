package logging

import (
	"context"
	"log/slog"
)

// runHandler writes each record to the console and to the run's JSON log
// file. Only the file copy carries run_id: the console already belongs to a
// single run, while files from many runs sit side by side in the log dir.
// Either sink may be nil.
type runHandler struct {
	console slog.Handler
	file    slog.Handler
	runID   string
}

func newRunHandler(console, file slog.Handler, runID string) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	}
	return &runHandler{console: console, file: file, runID: runID}
}

func (h *runHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.file.Enabled(ctx, level) || (h.console != nil && h.console.Enabled(ctx, level))
}

func (h *runHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if h.console != nil && h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if !h.file.Enabled(ctx, record.Level) {
		return consoleErr
	}
	if h.runID != "" {
		record.AddAttrs(slog.String(FieldRunID, h.runID))
	}
	if err := h.file.Handle(ctx, record); err != nil {
		return err
	}
	return consoleErr
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &runHandler{file: h.file.WithAttrs(attrs), runID: h.runID}
	if h.console != nil {
		next.console = h.console.WithAttrs(attrs)
	}
	return next
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	next := &runHandler{file: h.file.WithGroup(name), runID: h.runID}
	if h.console != nil {
		next.console = h.console.WithGroup(name)
	}
	return next
}
