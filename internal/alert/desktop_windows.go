//go:build windows

package alert

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows"
)

const (
	mbOK            = 0x00000000
	mbIconError     = 0x00000010
	mbSetForeground = 0x00010000
)

// Desktop shows a blocking MessageBox.
type Desktop struct {
	logger *slog.Logger
}

// NewDesktop returns the desktop notifier for this platform.
func NewDesktop(logger *slog.Logger) *Desktop {
	return &Desktop{logger: logger}
}

func (d *Desktop) Alert(_ context.Context, title, message string) error {
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return fmt.Errorf("encode alert text: %w", err)
	}
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("encode alert caption: %w", err)
	}
	if _, err := windows.MessageBox(0, text, caption, mbOK|mbIconError|mbSetForeground); err != nil {
		return fmt.Errorf("show message box: %w", err)
	}
	return nil
}
