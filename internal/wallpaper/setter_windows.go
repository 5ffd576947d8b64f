//go:build windows

package wallpaper

import (
	"context"
	"log/slog"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"

	"slowmovie/internal/failure"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var procSystemParametersInfoW = windows.NewLazySystemDLL("user32.dll").NewProc("SystemParametersInfoW")

type systemSetter struct {
	logger *slog.Logger
}

func newPlatformSetter(logger *slog.Logger) Setter {
	return &systemSetter{logger: logger}
}

func (s *systemSetter) Set(_ context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "resolve image path", err)
	}
	ptr, err := windows.UTF16PtrFromString(abs)
	if err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "encode image path", err)
	}
	if err := procSystemParametersInfoW.Find(); err != nil {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "load SystemParametersInfoW", err)
	}
	ret, _, callErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(ptr)),
		spifUpdateIniFile|spifSendChange,
	)
	if ret == 0 {
		return failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "SystemParametersInfoW", callErr)
	}
	return nil
}
