// Package alert surfaces fatal and recoverable errors to the person at the
// desktop. A run has no console most of the time, so the scheduler reports
// through a modal dialog and, when configured, an ntfy topic.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slowmovie/internal/config"
	"slowmovie/internal/logging"
)

// Title is the caption used for every alert.
const Title = "SlowMovie"

// Notifier delivers one alert.
type Notifier interface {
	Alert(ctx context.Context, title, message string) error
}

// New builds the notifier described by cfg: the desktop dialog when enabled
// plus ntfy when a topic is set. With neither, alerts are only logged by the
// caller.
func New(cfg *config.Config, logger *slog.Logger) Notifier {
	if cfg == nil {
		return Noop{}
	}
	logger = logging.NewComponentLogger(logger, "alert")
	var notifiers []Notifier
	if cfg.Alerts.Desktop {
		notifiers = append(notifiers, NewDesktop(logger))
	}
	if topic := strings.TrimSpace(cfg.Alerts.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Alerts.RequestTimeout) * time.Second
		notifiers = append(notifiers, NewNtfy(topic, &http.Client{Timeout: timeout}))
	}
	return Multi(notifiers...)
}

// Noop discards alerts.
type Noop struct{}

func (Noop) Alert(context.Context, string, string) error { return nil }

type multi []Notifier

// Multi delivers to every notifier and joins their errors.
func Multi(notifiers ...Notifier) Notifier {
	filtered := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			filtered = append(filtered, n)
		}
	}
	switch len(filtered) {
	case 0:
		return Noop{}
	case 1:
		return filtered[0]
	default:
		return filtered
	}
}

func (m multi) Alert(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Alert(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
