package failure_test

import (
	"errors"
	"strings"
	"testing"

	"slowmovie/internal/failure"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := failure.Wrap(failure.ErrToolExecution, "ffmpeg", "extract frame 12", cause)

	if !errors.Is(err, failure.ErrToolExecution) {
		t.Fatalf("expected marker in chain: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain: %v", err)
	}
	if !strings.Contains(err.Error(), "ffmpeg: extract frame 12") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := failure.Wrap(failure.ErrZeroFrameCount, "", "", nil)
	if err.Error() != "zero frame count: operation failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("plain"), "unknown"},
		{failure.Wrap(failure.ErrLockAcquisition, "flock", "", nil), "lock_acquisition"},
		{failure.Wrap(failure.ErrFrameCountParse, "ffprobe", "abc", nil), "frame_count_parse"},
		{failure.Wrap(failure.ErrWallpaperSet, "gsettings", "", errors.New("boom")), "wallpaper_set"},
	}
	for _, tc := range cases {
		if got := failure.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestRecoverableOnlyForWallpaper(t *testing.T) {
	if !failure.Recoverable(failure.Wrap(failure.ErrWallpaperSet, "set", "", nil)) {
		t.Fatal("expected wallpaper failure to be recoverable")
	}
	for _, marker := range []error{
		failure.ErrToolMissing,
		failure.ErrToolExecution,
		failure.ErrZeroFrameCount,
		failure.ErrStaleFileDeletion,
		failure.ErrSettingsIO,
	} {
		if failure.Recoverable(failure.Wrap(marker, "op", "", nil)) {
			t.Fatalf("expected %v to be fatal", marker)
		}
	}
}

func TestExitCode(t *testing.T) {
	if failure.ExitCode(nil) != 0 {
		t.Fatal("expected 0 for nil error")
	}
	if failure.ExitCode(failure.ErrToolMissing) == 0 {
		t.Fatal("expected non-zero for failure")
	}
}
