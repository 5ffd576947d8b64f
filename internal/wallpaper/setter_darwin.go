//go:build darwin

package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"slowmovie/internal/failure"
)

type systemEventsSetter struct {
	logger *slog.Logger
}

func newPlatformSetter(logger *slog.Logger) Setter {
	return &systemEventsSetter{logger: logger}
}

func (s *systemEventsSetter) Set(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "resolve image path", err)
	}
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %q`,
		strings.ReplaceAll(abs, `"`, `\"`))
	return runTool(ctx, s.logger, "osascript", "-e", script)
}
