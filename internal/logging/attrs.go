package logging

import (
	"context"
	"log/slog"
)

// Attr is the attribute type accepted by the helpers in this package.
type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func Uint64(key string, value uint64) Attr { return slog.Uint64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error records err under "error"; a nil err is written as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attributes into the variadic form slog.Logger methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with FieldComponent. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

const (
	defaultHint   = "see the run log for details"
	defaultImpact = "slideshow continues"
)

// WarnWithContext logs a warning that always states its event type, a hint
// for the operator, and its impact on the slideshow. Fields the caller
// supplies win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	problem(logger, slog.LevelWarn, msg, attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultHint),
		String(FieldImpact, defaultImpact),
	)
}

// ErrorWithContext is WarnWithContext at error level, without a default
// impact: errors end the run.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	problem(logger, slog.LevelError, msg, attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultHint),
	)
}

func problem(logger *slog.Logger, level slog.Level, msg string, attrs []Attr, defaults ...Attr) {
	if logger == nil {
		return
	}
	for _, d := range defaults {
		if !hasKey(attrs, d.Key) {
			attrs = append(attrs, d)
		}
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
