// Package wallpaper sets the desktop background to an image file.
//
// New picks a backend: an explicit command template when configured,
// otherwise the platform primitive (SystemParametersInfoW on Windows,
// System Events on macOS, gsettings or feh elsewhere). Every failure is
// reported as failure.ErrWallpaperSet, which the scheduler treats as
// recoverable.
package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"slowmovie/internal/failure"
	"slowmovie/internal/logging"
)

// PathPlaceholder is replaced with the image path in command templates.
const PathPlaceholder = "{path}"

// Setter applies an image as the desktop wallpaper.
type Setter interface {
	Set(ctx context.Context, imagePath string) error
}

// New returns the setter for this host. A non-empty command overrides the
// platform backend.
func New(command []string, logger *slog.Logger) Setter {
	logger = logging.NewComponentLogger(logger, "wallpaper")
	if len(command) > 0 {
		return &CommandSetter{argv: append([]string(nil), command...), logger: logger}
	}
	return newPlatformSetter(logger)
}

// CommandSetter runs a user-supplied command with the image path
// substituted for PathPlaceholder.
type CommandSetter struct {
	argv   []string
	logger *slog.Logger
}

// NewCommandSetter builds a setter from a command template.
func NewCommandSetter(argv []string) *CommandSetter {
	return &CommandSetter{argv: append([]string(nil), argv...), logger: logging.NewNop()}
}

// Expand returns the command line for imagePath.
func (c *CommandSetter) Expand(imagePath string) []string {
	out := make([]string, len(c.argv))
	for i, arg := range c.argv {
		out[i] = strings.ReplaceAll(arg, PathPlaceholder, imagePath)
	}
	return out
}

// Set runs the command and waits for it.
func (c *CommandSetter) Set(ctx context.Context, imagePath string) error {
	if len(c.argv) == 0 {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "empty command", nil)
	}
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "resolve image path", err)
	}
	argv := c.Expand(abs)
	return runTool(ctx, c.logger, argv[0], argv[1:]...)
}

func runTool(ctx context.Context, logger *slog.Logger, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := fmt.Sprintf("%s failed", filepath.Base(name))
		if msg := strings.TrimSpace(string(output)); msg != "" {
			detail += ": " + msg
		}
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", detail, err)
	}
	if logger != nil {
		logger.Debug("wallpaper command completed", logging.String("command", name))
	}
	return nil
}
