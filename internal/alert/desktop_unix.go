//go:build !windows && !darwin

package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Desktop shows a zenity dialog, falling back to a critical notify-send
// bubble when zenity is not installed.
type Desktop struct {
	logger   *slog.Logger
	lookPath func(string) (string, error)
}

// NewDesktop returns the desktop notifier for this platform.
func NewDesktop(logger *slog.Logger) *Desktop {
	return &Desktop{logger: logger, lookPath: exec.LookPath}
}

func (d *Desktop) Alert(ctx context.Context, title, message string) error {
	if zenity, err := d.lookPath("zenity"); err == nil {
		return run(ctx, zenity, "--error", "--no-wrap", "--title", title, "--text", message)
	}
	if notify, err := d.lookPath("notify-send"); err == nil {
		return run(ctx, notify, "--urgency=critical", "--app-name", Title, title, message)
	}
	return errors.New("no desktop alert tool found (zenity or notify-send)")
}

func run(ctx context.Context, name string, args ...string) error {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
