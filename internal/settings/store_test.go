package settings_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"slowmovie/internal/failure"
	"slowmovie/internal/logging"
	"slowmovie/internal/settings"
)

const settingsPath = "/work/config.json"

func newStore(fsys afero.Fs) *settings.Store {
	return settings.NewStore(fsys, settingsPath, "/work/movie.mp4", logging.NewNop())
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newStore(fsys)

	got := store.Load()
	want := settings.Settings{
		MoviePath:     "/work/movie.mp4",
		IntervalValue: 150,
		IntervalUnit:  settings.Second,
		FrameIndex:    1,
	}
	if got != want {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	data, err := afero.ReadFile(fsys, settingsPath)
	if err != nil {
		t.Fatalf("expected defaults written: %v", err)
	}
	for _, field := range []string{`"movie_path": "/work/movie.mp4"`, `"time_interval": 150`, `"time_type": 1`, `"frame_count": 1`, `"exit_flag": 0`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("expected %s in %s", field, data)
		}
	}
	if again := store.Load(); again != want {
		t.Fatalf("reload mismatch: %+v", again)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cases := []settings.Settings{
		{MoviePath: "/movies/a.mkv", IntervalValue: 3, IntervalUnit: settings.Minute, FrameIndex: 0},
		{MoviePath: "/movies/ünï code.mp4", IntervalValue: 1, IntervalUnit: settings.Hour, FrameIndex: 1<<64 - 1, ExitRequested: true},
		{MoviePath: "", IntervalValue: 0, IntervalUnit: settings.Unit(9), FrameIndex: 12345},
	}
	for _, tc := range cases {
		store := newStore(afero.NewMemMapFs())
		if err := store.Save(tc); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		if got := store.Load(); got != tc {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, tc)
		}
	}
}

func TestLoadMalformedFileKeepsFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, settingsPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := newStore(fsys)

	if got := store.Load(); got != store.Defaults() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	data, _ := afero.ReadFile(fsys, settingsPath)
	if string(data) != "{not json" {
		t.Fatalf("malformed file should be left untouched, got %q", data)
	}
}

func TestMalformedFileBackedUpBeforeUpdate(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, settingsPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := newStore(fsys)

	got, err := store.Update(func(s *settings.Settings) { s.FrameIndex = 42 })
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.FrameIndex != 42 || store.Load().FrameIndex != 42 {
		t.Fatalf("expected index saved over the malformed file, got %+v", got)
	}
	backup, err := afero.ReadFile(fsys, store.BackupPath())
	if err != nil {
		t.Fatalf("expected backup at %s: %v", store.BackupPath(), err)
	}
	if string(backup) != "{not json" {
		t.Fatalf("backup holds %q", backup)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, settingsPath, []byte(`{"movie_path":"/m.mp4","frame_count":77,"extra":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := newStore(fsys).Load()
	if got.MoviePath != "/m.mp4" || got.FrameIndex != 77 {
		t.Fatalf("expected file fields, got %+v", got)
	}
	if got.IntervalValue != settings.DefaultIntervalValue || got.IntervalUnit != settings.Second || got.ExitRequested {
		t.Fatalf("expected defaults for missing fields, got %+v", got)
	}
}

func TestSaveFailureIsSettingsIO(t *testing.T) {
	store := settings.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), settingsPath, "/work/movie.mp4", nil)
	err := store.Save(store.Defaults())
	if !errors.Is(err, failure.ErrSettingsIO) {
		t.Fatalf("expected settings io error, got %v", err)
	}
	// Load still degrades to defaults.
	if got := store.Load(); got != store.Defaults() {
		t.Fatalf("expected defaults from unwritable store, got %+v", got)
	}
}

func TestUpdateWritesOnlyOnChange(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newStore(fsys)
	store.Load()
	before, _ := fsys.Stat(settingsPath)

	got, err := store.Update(func(s *settings.Settings) { s.ExitRequested = false })
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	after, _ := fsys.Stat(settingsPath)
	if !after.ModTime().Equal(before.ModTime()) || got != store.Defaults() {
		t.Fatal("expected no write for unchanged settings")
	}

	got, err = store.Update(func(s *settings.Settings) { s.ExitRequested = true })
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !got.ExitRequested || !store.Load().ExitRequested {
		t.Fatal("expected exit flag persisted")
	}
}

func TestValidateMovie(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/movies/a.mp4", []byte("x"), 0o644)
	_ = fsys.MkdirAll("/movies/dir", 0o755)

	if err := settings.ValidateMovie(fsys, "/movies/a.mp4"); err != nil {
		t.Fatalf("expected valid movie, got %v", err)
	}
	for _, path := range []string{"", "/movies/dir", "/movies/missing.mp4"} {
		if err := settings.ValidateMovie(fsys, path); !errors.Is(err, failure.ErrMovieUnavailable) {
			t.Fatalf("%q: expected movie unavailable, got %v", path, err)
		}
	}
}

func TestIntervalClampsAndScales(t *testing.T) {
	tests := []struct {
		value uint32
		unit  settings.Unit
		want  time.Duration
	}{
		{150, settings.Second, 150 * time.Second},
		{0, settings.Second, 3 * time.Second},
		{2, settings.Minute, 3 * time.Minute},
		{5, settings.Hour, 5 * time.Hour},
		{10, settings.Unit(0), 10 * time.Second},
		{3000000, settings.Hour, settings.MaxInterval},
		{200000000, settings.Minute, settings.MaxInterval},
		{2562047, settings.Hour, 2562047 * time.Hour},
	}
	for _, tt := range tests {
		s := settings.Settings{IntervalValue: tt.value, IntervalUnit: tt.unit}
		if got := s.Interval(); got != tt.want {
			t.Fatalf("Interval(%d %v) = %v, want %v", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestParseUnit(t *testing.T) {
	for input, want := range map[string]settings.Unit{"second": settings.Second, "Minutes": settings.Minute, "3": settings.Hour, " h ": settings.Hour} {
		got, err := settings.ParseUnit(input)
		if err != nil || got != want {
			t.Fatalf("ParseUnit(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := settings.ParseUnit("fortnight"); err == nil {
		t.Fatal("expected error for unknown unit")
	}
	if settings.Minute.String() != "minute" || settings.Unit(7).Valid() {
		t.Fatal("unexpected unit helpers")
	}
}

func TestFrameForOffset(t *testing.T) {
	if got := settings.FrameForOffset(10); got != 240 {
		t.Fatalf("FrameForOffset(10) = %d", got)
	}
}
