package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"slowmovie/internal/config"
	"slowmovie/internal/frames"
	"slowmovie/internal/settings"
)

var titleCaser = cases.Title(language.English)

func newGateway(cfg *config.Config) *frames.Gateway {
	return frames.New(
		frames.ResolveBinary(cfg.Paths.WorkDir, "ffprobe", cfg.Tools.FFprobe),
		frames.ResolveBinary(cfg.Paths.WorkDir, "ffmpeg", cfg.Tools.FFmpeg),
		cfg.Tools.TimeoutSeconds,
	)
}

// formatInterval renders the interval the scheduler will actually use,
// noting when the stored value is clamped or the unit is unknown.
func formatInterval(st settings.Settings) string {
	value := settings.ClampInterval(st.IntervalValue)
	unit := settings.Second
	if st.IntervalUnit.Valid() {
		unit = st.IntervalUnit
	}
	name := unit.String()
	if value != 1 {
		name += "s"
	}
	out := fmt.Sprintf("%d %s", value, titleCaser.String(name))
	if value != st.IntervalValue {
		out += fmt.Sprintf(" (stored %d)", st.IntervalValue)
	}
	if !st.IntervalUnit.Valid() {
		out += fmt.Sprintf(" (unknown unit %d)", uint8(st.IntervalUnit))
	}
	return out
}

func formatFrame(index, total uint64) string {
	if total == 0 {
		return strconv.FormatUint(index, 10)
	}
	return fmt.Sprintf("%d / %d", index, total)
}

func movieLabel(path string) string {
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}
