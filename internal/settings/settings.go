package settings

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Unit is the interval unit persisted as time_type.
type Unit uint8

const (
	Second Unit = 1
	Minute Unit = 2
	Hour   Unit = 3
)

const (
	// MinIntervalValue is the shortest interval the scheduler honors.
	MinIntervalValue uint32 = 3
	// DefaultIntervalValue applies when no settings file exists.
	DefaultIntervalValue uint32 = 150
	// DefaultFrameIndex is where a fresh movie starts.
	DefaultFrameIndex uint64 = 1

	// MaxInterval is the longest wait the scheduler honors. Larger stored
	// values saturate here instead of overflowing time.Duration.
	MaxInterval = time.Duration(math.MaxInt64)

	// assumedFrameRate converts a start offset into a frame index. The real
	// rate is never probed.
	assumedFrameRate = 24
)

// Multiplier returns the unit length in seconds. Unknown units count as
// seconds.
func (u Unit) Multiplier() time.Duration {
	switch u {
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	default:
		return time.Second
	}
}

// Valid reports whether u is one of the three persisted units.
func (u Unit) Valid() bool {
	return u == Second || u == Minute || u == Hour
}

func (u Unit) String() string {
	switch u {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	default:
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
}

// ParseUnit accepts the unit name (singular or plural, any case) or its
// numeric code.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "s", "sec", "second", "seconds":
		return Second, nil
	case "2", "m", "min", "minute", "minutes":
		return Minute, nil
	case "3", "h", "hour", "hours":
		return Hour, nil
	default:
		return 0, fmt.Errorf("unknown interval unit %q (want second, minute, or hour)", value)
	}
}

// Settings is the wallpaper state shared by the configurator and the
// scheduler.
type Settings struct {
	MoviePath     string
	IntervalValue uint32
	IntervalUnit  Unit
	// FrameIndex is the frame currently displayed (0-based).
	FrameIndex    uint64
	ExitRequested bool
}

// Defaults returns the settings written when no file exists yet.
func Defaults(moviePath string) Settings {
	return Settings{
		MoviePath:     moviePath,
		IntervalValue: DefaultIntervalValue,
		IntervalUnit:  Second,
		FrameIndex:    DefaultFrameIndex,
	}
}

// Interval returns the wait between frames, floored at MinIntervalValue
// units and capped at MaxInterval.
func (s Settings) Interval() time.Duration {
	value := time.Duration(ClampInterval(s.IntervalValue))
	unit := s.IntervalUnit.Multiplier()
	if value > MaxInterval/unit {
		return MaxInterval
	}
	return value * unit
}

// ClampInterval raises value to MinIntervalValue.
func ClampInterval(value uint32) uint32 {
	if value < MinIntervalValue {
		return MinIntervalValue
	}
	return value
}

// FrameForOffset converts a start offset in seconds into a frame index.
func FrameForOffset(seconds uint64) uint64 {
	return seconds * assumedFrameRate
}
