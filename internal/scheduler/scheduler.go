package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"slowmovie/internal/alert"
	"slowmovie/internal/failure"
	"slowmovie/internal/fileutil"
	"slowmovie/internal/history"
	"slowmovie/internal/logging"
	"slowmovie/internal/settings"
	"slowmovie/internal/wallpaper"
)

const defaultExitPoll = 5 * time.Second

// SettingsStore is the persisted settings record.
type SettingsStore interface {
	Load() settings.Settings
	Update(mutate func(*settings.Settings)) (settings.Settings, error)
}

// FrameTools counts and extracts movie frames.
type FrameTools interface {
	QueryFrameCount(ctx context.Context, movie string) (uint64, error)
	ExtractFrame(ctx context.Context, movie string, index uint64, out string) error
}

// Recorder journals finished cycles.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Result describes one completed cycle.
type Result struct {
	Frame     uint64
	Total     uint64
	Published bool
}

// Scheduler drives the frame cycle for the primary process.
type Scheduler struct {
	store     SettingsStore
	tools     FrameTools
	setter    wallpaper.Setter
	notifier  alert.Notifier
	recorder  Recorder
	fs        afero.Fs
	framePath string
	exitPoll  time.Duration
	after     func(time.Duration) <-chan time.Time
	runID     string
	logger    *slog.Logger

	// last values warned about, so a bad setting is logged once per change
	clampWarned bool
	clampedFrom uint32
	unitWarned  bool
	badUnit     settings.Unit
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithRecorder journals every cycle.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// WithFs sets the filesystem holding the movie and frame.
func WithFs(fsys afero.Fs) Option {
	return func(s *Scheduler) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithExitPoll sets how often the exit flag is checked while waiting.
func WithExitPoll(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.exitPoll = d
		}
	}
}

// WithTimer replaces time.After (primarily for tests).
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) {
		if after != nil {
			s.after = after
		}
	}
}

// WithRunID tags journal entries with the process run.
func WithRunID(id string) Option {
	return func(s *Scheduler) { s.runID = id }
}

// WithLogger sets the scheduler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New builds a scheduler that writes frames to framePath.
func New(store SettingsStore, tools FrameTools, setter wallpaper.Setter, notifier alert.Notifier, framePath string, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:     store,
		tools:     tools,
		setter:    setter,
		notifier:  notifier,
		fs:        afero.NewOsFs(),
		framePath: framePath,
		exitPoll:  defaultExitPoll,
		after:     time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = alert.Noop{}
	}
	s.logger = logging.NewComponentLogger(s.logger, "scheduler")
	return s
}

// NextFrame returns the frame after index, wrapping to 0 at total.
func NextFrame(index, total uint64) (uint64, error) {
	if total == 0 {
		return 0, failure.Wrap(failure.ErrZeroFrameCount, "scheduler", "movie reports no video frames", nil)
	}
	return (index + 1) % total, nil
}

// Run cycles until the exit flag is set, ctx is cancelled, or a cycle
// fails. Exit and cancellation return nil.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("frame scheduler started",
		logging.String(logging.FieldEventType, "scheduler_started"),
		logging.String("frame_path", s.framePath),
	)
	for {
		current := s.store.Load()
		if current.ExitRequested {
			s.logger.Info("exit requested; stopping",
				logging.String(logging.FieldEventType, "scheduler_exit"),
			)
			return nil
		}

		if _, err := s.Cycle(ctx, current); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		exit, err := s.wait(ctx, s.interval(current))
		if err != nil {
			s.logger.Info("scheduler cancelled", logging.String(logging.FieldEventType, "scheduler_cancelled"))
			return nil
		}
		if exit {
			s.logger.Info("exit requested during wait; stopping",
				logging.String(logging.FieldEventType, "scheduler_exit"),
			)
			return nil
		}
	}
}

// Cycle publishes the frame after current.FrameIndex. A wallpaper failure
// is alerted and reported through Result.Published; any other failure is
// returned.
func (s *Scheduler) Cycle(ctx context.Context, current settings.Settings) (Result, error) {
	logger := s.logger.With(logging.String(logging.FieldMovie, current.MoviePath))
	result := Result{}

	fail := func(err error) (Result, error) {
		s.record(ctx, current.MoviePath, result, history.OutcomeFailed, err)
		return result, err
	}

	if err := settings.ValidateMovie(s.fs, current.MoviePath); err != nil {
		return fail(err)
	}

	total, err := s.tools.QueryFrameCount(ctx, current.MoviePath)
	if err != nil {
		return fail(err)
	}
	result.Total = total

	// The count is checked before the stale frame is removed so a bad count
	// leaves the previous frame in place.
	next, err := NextFrame(current.FrameIndex, total)
	if err != nil {
		return fail(err)
	}
	result.Frame = next

	if _, err := fileutil.RemoveIfExists(s.fs, s.framePath); err != nil {
		return fail(failure.Wrap(failure.ErrStaleFileDeletion, "scheduler", s.framePath, err))
	}

	if err := s.tools.ExtractFrame(ctx, current.MoviePath, next, s.framePath); err != nil {
		return fail(err)
	}

	if err := s.setter.Set(ctx, s.framePath); err != nil {
		if !failure.Recoverable(err) {
			err = failure.Wrap(failure.ErrWallpaperSet, "scheduler", "apply frame", err)
		}
		logging.WarnWithContext(logger, "wallpaper not applied; frame will be retried", "wallpaper_failed",
			logging.Uint64(logging.FieldFrameIndex, next),
			logging.Uint64(logging.FieldFrameTotal, total),
			logging.String(logging.FieldErrorKind, failure.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the wallpaper backend or set wallpaper.command"),
			logging.String(logging.FieldImpact, "frame index not advanced"),
		)
		s.alert(ctx, fmt.Sprintf("Could not set the wallpaper to frame %d: %v", next, err))
		s.record(ctx, current.MoviePath, result, history.OutcomeWallpaperFailed, err)
		return result, nil
	}

	if _, err := s.store.Update(func(st *settings.Settings) {
		// The configurator may have switched movies while this frame was
		// being extracted; the new movie keeps its own index.
		if st.MoviePath == current.MoviePath {
			st.FrameIndex = next
		}
	}); err != nil {
		return fail(err)
	}

	result.Published = true
	logger.Info("frame published",
		logging.String(logging.FieldEventType, "frame_published"),
		logging.Uint64(logging.FieldFrameIndex, next),
		logging.Uint64(logging.FieldFrameTotal, total),
	)
	s.record(ctx, current.MoviePath, result, history.OutcomePublished, nil)
	return result, nil
}

func (s *Scheduler) interval(current settings.Settings) time.Duration {
	if current.IntervalValue < settings.MinIntervalValue && (!s.clampWarned || s.clampedFrom != current.IntervalValue) {
		s.clampWarned, s.clampedFrom = true, current.IntervalValue
		logging.WarnWithContext(s.logger, "interval below minimum; clamped", "interval_clamped",
			logging.Int64("interval_value", int64(current.IntervalValue)),
			logging.Int64("minimum", int64(settings.MinIntervalValue)),
			logging.String(logging.FieldImpact, "frames change less often than configured"),
		)
	}
	if !current.IntervalUnit.Valid() && (!s.unitWarned || s.badUnit != current.IntervalUnit) {
		s.unitWarned, s.badUnit = true, current.IntervalUnit
		logging.WarnWithContext(s.logger, "unknown interval unit; treating as seconds", "interval_unit_unknown",
			logging.String("unit", current.IntervalUnit.String()),
			logging.String(logging.FieldErrorHint, "set time_type to 1, 2, or 3"),
		)
	}
	return current.Interval()
}

// wait sleeps for d in exitPoll steps and reports whether the exit flag was
// set meanwhile. A non-positive d waits the minimum interval.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) (bool, error) {
	if d <= 0 {
		d = time.Duration(settings.MinIntervalValue) * time.Second
	}
	for remaining := d; remaining > 0; {
		step := min(remaining, s.exitPoll)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-s.after(step):
		}
		remaining -= step
		if s.store.Load().ExitRequested {
			return true, nil
		}
	}
	return false, nil
}

func (s *Scheduler) alert(ctx context.Context, message string) {
	if err := s.notifier.Alert(ctx, alert.Title, message); err != nil {
		logging.WarnWithContext(s.logger, "alert not delivered", "alert_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "failure only visible in logs"),
		)
	}
}

func (s *Scheduler) record(ctx context.Context, movie string, result Result, outcome history.Outcome, cause error) {
	if s.recorder == nil {
		return
	}
	entry := history.Entry{
		At:         time.Now(),
		RunID:      s.runID,
		MoviePath:  movie,
		FrameIndex: result.Frame,
		FrameTotal: result.Total,
		Outcome:    outcome,
	}
	if cause != nil {
		entry.ErrorKind = failure.Kind(cause)
		entry.ErrorMessage = cause.Error()
	}
	// Cycles interrupted by shutdown are still journaled.
	recordCtx := context.WithoutCancel(ctx)
	if err := s.recorder.Record(recordCtx, entry); err != nil && !errors.Is(err, context.Canceled) {
		logging.WarnWithContext(s.logger, "cycle not journaled", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history output will miss this cycle"),
		)
	}
}
