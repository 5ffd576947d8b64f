package configform

import (
	"errors"
	"testing"

	"slowmovie/internal/settings"
)

type memoryUpdater struct {
	stored settings.Settings
	err    error
	// advance runs before each update to simulate the scheduler publishing.
	advance func(*settings.Settings)
}

func (u *memoryUpdater) Update(mutate func(*settings.Settings)) (settings.Settings, error) {
	if u.advance != nil {
		u.advance(&u.stored)
	}
	next := u.stored
	mutate(&next)
	if u.err != nil {
		return u.stored, u.err
	}
	u.stored = next
	return next, nil
}

func TestChangesSaveAppliesToLatestSettings(t *testing.T) {
	store := &memoryUpdater{
		stored:  baseSettings(),
		advance: func(st *settings.Settings) { st.FrameIndex += 3 },
	}
	interval := uint32(30)

	got, err := Changes{Interval: &interval}.Save(store)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got.FrameIndex != 4203 || got.IntervalValue != 30 {
		t.Fatalf("unexpected settings: %+v", got)
	}
}

func TestChangesApply(t *testing.T) {
	movie := "/movies/other.mkv"
	same := "/movies/film.mp4"
	short := uint32(1)
	frame := uint64(240)

	tests := []struct {
		name    string
		changes Changes
		check   func(settings.Settings) bool
	}{
		{
			name:    "no edits clears exit",
			changes: Changes{},
			check:   func(st settings.Settings) bool { return !st.ExitRequested && st.FrameIndex == 4200 },
		},
		{
			name:    "exit keeps everything else",
			changes: Changes{Exit: true, Movie: &movie},
			check:   func(st settings.Settings) bool { return st.ExitRequested && st.MoviePath == same },
		},
		{
			name:    "new movie restarts",
			changes: Changes{Movie: &movie},
			check: func(st settings.Settings) bool {
				return st.MoviePath == movie && st.FrameIndex == settings.DefaultFrameIndex
			},
		},
		{
			name:    "same movie keeps frame",
			changes: Changes{Movie: &same},
			check:   func(st settings.Settings) bool { return st.FrameIndex == 4200 },
		},
		{
			name:    "new movie with start",
			changes: Changes{Movie: &movie, Frame: &frame},
			check:   func(st settings.Settings) bool { return st.FrameIndex == 240 },
		},
		{
			name:    "short interval clamped",
			changes: Changes{Interval: &short},
			check:   func(st settings.Settings) bool { return st.IntervalValue == settings.MinIntervalValue },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := baseSettings()
			st.ExitRequested = true
			tt.changes.Apply(&st)
			if !tt.check(st) {
				t.Fatalf("unexpected settings: %+v", st)
			}
		})
	}
}

func TestChangesSavePropagatesError(t *testing.T) {
	want := errors.New("disk full")
	store := &memoryUpdater{stored: baseSettings(), err: want}
	got, err := Changes{Exit: true}.Save(store)
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if got.ExitRequested {
		t.Fatal("failed save must report the stored settings")
	}
}
