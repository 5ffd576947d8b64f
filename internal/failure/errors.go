package failure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLockAcquisition   = errors.New("lock acquisition error")
	ErrFrontEndMissing   = errors.New("configurator not found")
	ErrFrontEndExecution = errors.New("configurator execution error")
	ErrSettingsIO        = errors.New("settings io error")
	ErrToolMissing       = errors.New("external tool missing")
	ErrToolExecution     = errors.New("external tool error")
	ErrFrameCountParse   = errors.New("frame count parse error")
	ErrZeroFrameCount    = errors.New("zero frame count")
	ErrWallpaperSet      = errors.New("wallpaper set error")
	ErrStaleFileDeletion = errors.New("stale frame deletion error")
	ErrMovieUnavailable  = errors.New("movie unavailable")
)

var kinds = []struct {
	marker error
	kind   string
}{
	{ErrLockAcquisition, "lock_acquisition"},
	{ErrFrontEndMissing, "front_end_missing"},
	{ErrFrontEndExecution, "front_end_execution"},
	{ErrSettingsIO, "settings_io"},
	{ErrToolMissing, "tool_missing"},
	{ErrToolExecution, "tool_execution"},
	{ErrFrameCountParse, "frame_count_parse"},
	{ErrZeroFrameCount, "zero_frame_count"},
	{ErrWallpaperSet, "wallpaper_set"},
	{ErrStaleFileDeletion, "stale_file_deletion"},
	{ErrMovieUnavailable, "movie_unavailable"},
}

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrToolExecution
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a stable identifier for the first marker found in err's chain.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.kind
		}
	}
	return "unknown"
}

// Recoverable reports whether the scheduler may keep running after err.
// Only a failed wallpaper update qualifies: the frame index is not advanced
// and the same frame is retried on the next tick.
func Recoverable(err error) bool {
	return errors.Is(err, ErrWallpaperSet)
}

// ExitCode maps a terminal error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
