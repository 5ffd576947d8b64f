//go:build darwin

package alert

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Desktop shows a System Events alert through osascript.
type Desktop struct {
	logger *slog.Logger
}

// NewDesktop returns the desktop notifier for this platform.
func NewDesktop(logger *slog.Logger) *Desktop {
	return &Desktop{logger: logger}
}

func (d *Desktop) Alert(ctx context.Context, title, message string) error {
	script := fmt.Sprintf(`display alert %q message %q as critical`, title, message)
	output, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript alert: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
