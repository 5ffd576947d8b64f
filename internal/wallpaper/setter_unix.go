//go:build !windows && !darwin

package wallpaper

import (
	"context"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"

	"slowmovie/internal/failure"
	"slowmovie/internal/logging"
)

const gnomeBackgroundSchema = "org.gnome.desktop.background"

// desktopSetter prefers gsettings (GNOME and derivatives) and falls back to
// feh for bare X11 window managers.
type desktopSetter struct {
	logger   *slog.Logger
	lookPath func(string) (string, error)
}

func newPlatformSetter(logger *slog.Logger) Setter {
	return &desktopSetter{logger: logger, lookPath: exec.LookPath}
}

func (s *desktopSetter) Set(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "resolve image path", err)
	}
	if gsettings, err := s.lookPath("gsettings"); err == nil {
		uri := (&url.URL{Scheme: "file", Path: abs}).String()
		if err := runTool(ctx, s.logger, gsettings, "set", gnomeBackgroundSchema, "picture-uri", uri); err != nil {
			return err
		}
		// Older GNOME releases lack the dark key; the light key already applied.
		if err := runTool(ctx, s.logger, gsettings, "set", gnomeBackgroundSchema, "picture-uri-dark", uri); err != nil {
			s.logger.Debug("picture-uri-dark not applied", logging.Error(err))
		}
		return nil
	}
	if feh, err := s.lookPath("feh"); err == nil {
		return runTool(ctx, s.logger, feh, "--no-fehbg", "--bg-fill", abs)
	}
	return failure.Wrap(failure.ErrWallpaperSet, "wallpaper",
		"no backend found (install gsettings or feh, or set wallpaper.command)", nil)
}
