package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"slowmovie/internal/failure"
	"slowmovie/internal/history"
	"slowmovie/internal/scheduler"
	"slowmovie/internal/settings"
)

const (
	moviePath = "/movies/film.mp4"
	framePath = "/work/frame.png"
)

type memoryStore struct {
	mu      sync.Mutex
	current settings.Settings
	loads   int
	saveErr error
	// onUpdate runs inside Update before mutate, to simulate a concurrent writer.
	onUpdate func(*settings.Settings)
}

func (m *memoryStore) Load() settings.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.current
}

func (m *memoryStore) Update(mutate func(*settings.Settings)) (settings.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.current
	if m.onUpdate != nil {
		m.onUpdate(&next)
	}
	mutate(&next)
	if m.saveErr != nil {
		return m.current, m.saveErr
	}
	m.current = next
	return next, nil
}

func (m *memoryStore) setExit() {
	m.mu.Lock()
	m.current.ExitRequested = true
	m.mu.Unlock()
}

func (m *memoryStore) snapshot() settings.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

type fakeTools struct {
	fs         afero.Fs
	total      uint64
	countErr   error
	extractErr error
	counts     int
	extracted  []uint64
	staleSeen  bool
}

func (f *fakeTools) QueryFrameCount(context.Context, string) (uint64, error) {
	f.counts++
	return f.total, f.countErr
}

func (f *fakeTools) ExtractFrame(_ context.Context, _ string, index uint64, out string) error {
	if exists, _ := afero.Exists(f.fs, out); exists {
		f.staleSeen = true
	}
	f.extracted = append(f.extracted, index)
	if f.extractErr != nil {
		return f.extractErr
	}
	return afero.WriteFile(f.fs, out, []byte("png"), 0o644)
}

type fakeSetter struct {
	errs  []error
	calls int
}

func (f *fakeSetter) Set(context.Context, string) error {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Alert(_ context.Context, _ string, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fakeRecorder struct {
	entries []history.Entry
}

func (f *fakeRecorder) Record(_ context.Context, entry history.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type harness struct {
	fs       afero.Fs
	store    *memoryStore
	tools    *fakeTools
	setter   *fakeSetter
	notifier *fakeNotifier
	recorder *fakeRecorder
	waits    []time.Duration
	// exitAfterWaits sets the exit flag once this many waits have elapsed.
	exitAfterWaits int
}

func newHarness(t *testing.T, index, total uint64) *harness {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, moviePath, []byte("movie"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &harness{
		fs: fsys,
		store: &memoryStore{current: settings.Settings{
			MoviePath:     moviePath,
			IntervalValue: 10,
			IntervalUnit:  settings.Second,
			FrameIndex:    index,
		}},
		tools:          &fakeTools{fs: fsys, total: total},
		setter:         &fakeSetter{},
		notifier:       &fakeNotifier{},
		recorder:       &fakeRecorder{},
		exitAfterWaits: 1,
	}
}

func (h *harness) after(d time.Duration) <-chan time.Time {
	h.waits = append(h.waits, d)
	if len(h.waits) >= h.exitAfterWaits {
		h.store.setExit()
	}
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (h *harness) scheduler(opts ...scheduler.Option) *scheduler.Scheduler {
	base := []scheduler.Option{
		scheduler.WithFs(h.fs),
		scheduler.WithRecorder(h.recorder),
		scheduler.WithTimer(h.after),
		scheduler.WithExitPoll(time.Hour),
	}
	return scheduler.New(h.store, h.tools, h.setter, h.notifier, framePath, append(base, opts...)...)
}

func TestNextFrameWraps(t *testing.T) {
	tests := []struct {
		index, total, want uint64
	}{
		{9, 10, 0},
		{0, 10, 1},
		{1, 1, 0},
		{25, 10, 6},
		{1<<64 - 1, 7, 0},
	}
	for _, tt := range tests {
		got, err := scheduler.NextFrame(tt.index, tt.total)
		if err != nil {
			t.Fatalf("NextFrame(%d, %d) returned error: %v", tt.index, tt.total, err)
		}
		if got != tt.want {
			t.Fatalf("NextFrame(%d, %d) = %d, want %d", tt.index, tt.total, got, tt.want)
		}
		if got >= tt.total {
			t.Fatalf("NextFrame(%d, %d) = %d out of range", tt.index, tt.total, got)
		}
	}
	if _, err := scheduler.NextFrame(3, 0); !errors.Is(err, failure.ErrZeroFrameCount) {
		t.Fatalf("expected zero frame count error, got %v", err)
	}
}

func TestRunWrapsAtLastFrame(t *testing.T) {
	h := newHarness(t, 9, 10)
	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(h.tools.extracted) != 1 || h.tools.extracted[0] != 0 {
		t.Fatalf("expected frame 0 extracted, got %v", h.tools.extracted)
	}
	if got := h.store.snapshot().FrameIndex; got != 0 {
		t.Fatalf("expected persisted index 0, got %d", got)
	}
	if len(h.recorder.entries) != 1 || h.recorder.entries[0].Outcome != history.OutcomePublished {
		t.Fatalf("expected one published entry, got %+v", h.recorder.entries)
	}
}

func TestRunCyclesSequentially(t *testing.T) {
	h := newHarness(t, 1, 3)
	h.exitAfterWaits = 4
	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []uint64{2, 0, 1, 2}
	if len(h.tools.extracted) != len(want) {
		t.Fatalf("expected %v, got %v", want, h.tools.extracted)
	}
	for i := range want {
		if h.tools.extracted[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, h.tools.extracted)
		}
	}
	if got := h.store.snapshot().FrameIndex; got != 2 {
		t.Fatalf("expected persisted index 2, got %d", got)
	}
}

func TestRunStopsWhenExitRequested(t *testing.T) {
	h := newHarness(t, 4, 10)
	h.store.current.ExitRequested = true
	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if h.tools.counts != 0 || len(h.tools.extracted) != 0 || h.setter.calls != 0 {
		t.Fatal("expected no tool or wallpaper activity after exit request")
	}
	if got := h.store.snapshot().FrameIndex; got != 4 {
		t.Fatalf("expected index untouched, got %d", got)
	}
}

func TestRunFailsOnUnparseableCount(t *testing.T) {
	h := newHarness(t, 4, 0)
	h.tools.countErr = failure.Wrap(failure.ErrFrameCountParse, "ffprobe", `unexpected output "abc"`, errors.New("invalid syntax"))

	err := h.scheduler().Run(context.Background())
	if !errors.Is(err, failure.ErrFrameCountParse) {
		t.Fatalf("expected frame count parse error, got %v", err)
	}
	if len(h.tools.extracted) != 0 {
		t.Fatal("expected no extraction after count failure")
	}
	if len(h.recorder.entries) != 1 || h.recorder.entries[0].ErrorKind != "frame_count_parse" {
		t.Fatalf("expected failed entry journaled, got %+v", h.recorder.entries)
	}
}

func TestRunFailsOnZeroFrameCount(t *testing.T) {
	h := newHarness(t, 4, 0)
	if err := afero.WriteFile(h.fs, framePath, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := h.scheduler().Run(context.Background())
	if !errors.Is(err, failure.ErrZeroFrameCount) {
		t.Fatalf("expected zero frame count error, got %v", err)
	}
	if len(h.tools.extracted) != 0 {
		t.Fatal("expected no extraction for zero frames")
	}
	if exists, _ := afero.Exists(h.fs, framePath); !exists {
		t.Fatal("previous frame must survive a bad frame count")
	}
}

func TestWallpaperFailureKeepsIndex(t *testing.T) {
	h := newHarness(t, 4, 10)
	h.setter.errs = []error{failure.Wrap(failure.ErrWallpaperSet, "wallpaper", "no display", nil)}

	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := h.store.snapshot().FrameIndex; got != 4 {
		t.Fatalf("expected index to stay 4 after wallpaper failure, got %d", got)
	}
	if len(h.notifier.messages) != 1 {
		t.Fatalf("expected one alert, got %v", h.notifier.messages)
	}
	if len(h.recorder.entries) != 1 || h.recorder.entries[0].Outcome != history.OutcomeWallpaperFailed {
		t.Fatalf("expected wallpaper failure journaled, got %+v", h.recorder.entries)
	}
}

func TestWallpaperFailureRetriesSameFrame(t *testing.T) {
	h := newHarness(t, 4, 10)
	h.exitAfterWaits = 2
	h.setter.errs = []error{errors.New("desktop busy")}

	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(h.tools.extracted) != 2 || h.tools.extracted[0] != 5 || h.tools.extracted[1] != 5 {
		t.Fatalf("expected frame 5 retried, got %v", h.tools.extracted)
	}
	if got := h.store.snapshot().FrameIndex; got != 5 {
		t.Fatalf("expected index 5 after retry, got %d", got)
	}
}

func TestCycleRemovesStaleFrame(t *testing.T) {
	h := newHarness(t, 0, 10)
	if err := afero.WriteFile(h.fs, framePath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := h.scheduler().Cycle(context.Background(), h.store.Load())
	if err != nil {
		t.Fatalf("Cycle returned error: %v", err)
	}
	if h.tools.staleSeen {
		t.Fatal("expected stale frame removed before extraction")
	}
	if !res.Published || res.Frame != 1 || res.Total != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCycleStaleDeletionFailure(t *testing.T) {
	h := newHarness(t, 0, 10)
	_ = afero.WriteFile(h.fs, framePath, []byte("old"), 0o644)
	h.fs = afero.NewReadOnlyFs(h.fs)

	_, err := h.scheduler().Cycle(context.Background(), h.store.Load())
	if !errors.Is(err, failure.ErrStaleFileDeletion) {
		t.Fatalf("expected stale deletion error, got %v", err)
	}
	if len(h.tools.extracted) != 0 {
		t.Fatal("expected no extraction after deletion failure")
	}
}

func TestCycleMissingMovie(t *testing.T) {
	h := newHarness(t, 0, 10)
	current := h.store.Load()
	current.MoviePath = "/movies/missing.mp4"
	_, err := h.scheduler().Cycle(context.Background(), current)
	if !errors.Is(err, failure.ErrMovieUnavailable) {
		t.Fatalf("expected movie unavailable, got %v", err)
	}
	if h.tools.counts != 0 {
		t.Fatal("expected no ffprobe call for a missing movie")
	}
}

func TestCycleSaveFailureIsFatal(t *testing.T) {
	h := newHarness(t, 0, 10)
	h.store.saveErr = failure.Wrap(failure.ErrSettingsIO, "settings", "write", errors.New("disk full"))
	_, err := h.scheduler().Cycle(context.Background(), h.store.Load())
	if !errors.Is(err, failure.ErrSettingsIO) {
		t.Fatalf("expected settings io error, got %v", err)
	}
}

func TestCycleDoesNotAdvanceReplacedMovie(t *testing.T) {
	h := newHarness(t, 0, 10)
	h.store.onUpdate = func(st *settings.Settings) {
		st.MoviePath = "/movies/other.mp4"
		st.FrameIndex = 100
	}
	if _, err := h.scheduler().Cycle(context.Background(), h.store.Load()); err != nil {
		t.Fatalf("Cycle returned error: %v", err)
	}
	got := h.store.snapshot()
	if got.MoviePath != "/movies/other.mp4" || got.FrameIndex != 100 {
		t.Fatalf("expected new movie's index preserved, got %+v", got)
	}
}

func TestWaitPollsExitFlag(t *testing.T) {
	h := newHarness(t, 0, 10)
	h.exitAfterWaits = 3
	h.store.current.IntervalValue = 10

	if err := h.scheduler(scheduler.WithExitPoll(4 * time.Second)).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []time.Duration{4 * time.Second, 4 * time.Second, 2 * time.Second}
	if len(h.waits) != len(want) {
		t.Fatalf("expected waits %v, got %v", want, h.waits)
	}
	for i := range want {
		if h.waits[i] != want[i] {
			t.Fatalf("expected waits %v, got %v", want, h.waits)
		}
	}
	if len(h.tools.extracted) != 1 {
		t.Fatalf("expected a single cycle, got %v", h.tools.extracted)
	}
}

func TestWaitClampsShortInterval(t *testing.T) {
	h := newHarness(t, 0, 10)
	h.store.current.IntervalValue = 1
	h.store.current.IntervalUnit = settings.Minute
	if err := h.scheduler().Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(h.waits) != 1 || h.waits[0] != 3*time.Minute {
		t.Fatalf("expected a 3 minute wait, got %v", h.waits)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	h := newHarness(t, 0, 10)
	ctx, cancel := context.WithCancel(context.Background())
	never := func(time.Duration) <-chan time.Time {
		cancel()
		return make(chan time.Time)
	}
	done := make(chan error, 1)
	go func() {
		done <- h.scheduler(scheduler.WithTimer(never)).Run(ctx)
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestWaitSaturatesHugeInterval(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value uint32
		unit  settings.Unit
	}{
		{name: "hours", value: 3000000, unit: settings.Hour},
		{name: "minutes", value: 200000000, unit: settings.Minute},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, 0, 10)
			h.store.current.IntervalValue = tc.value
			h.store.current.IntervalUnit = tc.unit
			if err := h.scheduler(scheduler.WithExitPoll(4 * time.Second)).Run(context.Background()); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if len(h.tools.extracted) != 1 {
				t.Fatalf("expected one cycle before the wait, got %v", h.tools.extracted)
			}
			if len(h.waits) != 1 || h.waits[0] != 4*time.Second {
				t.Fatalf("expected a single poll step, got %v", h.waits)
			}
		})
	}
}
