package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"slowmovie/internal/alert"
	"slowmovie/internal/config"
	"slowmovie/internal/deps"
	"slowmovie/internal/failure"
	"slowmovie/internal/frames"
	"slowmovie/internal/history"
	"slowmovie/internal/launcher"
	"slowmovie/internal/logging"
	"slowmovie/internal/preflight"
	"slowmovie/internal/scheduler"
	"slowmovie/internal/settings"
	"slowmovie/internal/singleton"
	"slowmovie/internal/wallpaper"
)

// Options configures process runtime behavior.
type Options struct {
	LogLevel string
	// SkipConfigurator starts scheduling without showing the configurator,
	// regardless of configurator.launch_on_start.
	SkipConfigurator bool

	schedulerOptions []scheduler.Option
	notifier         alert.Notifier
}

// Run is the process entry: it takes the singleton lock and either hands
// over to the configurator (secondary) or runs the frame scheduler
// (primary). Fatal errors are logged and alerted before being returned.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	ctx, cancel := signal.NotifyContext(cmdCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	runID := uuid.NewString()
	logger, logPath, err := logging.NewFromConfig(cfg, runID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.PruneRunLogs(logger, cfg.LogDir(), cfg.Logging.RetentionDays, logPath)

	notifier := opts.notifier
	if notifier == nil {
		notifier = alert.New(cfg, logger)
	}

	err = run(ctx, cfg, opts, logger, notifier, runID)
	if err != nil {
		reportFatal(ctx, logger, notifier, err)
	}
	return err
}

func run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger, notifier alert.Notifier, runID string) error {
	guard, err := singleton.Acquire(cfg.Lock.Dir, cfg.Lock.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			logger.Debug("lock release failed", logging.Error(err))
		}
	}()

	logger = logger.With(logging.String(logging.FieldRole, guard.Role().String()))
	logger.Info("slowmovie starting",
		logging.String(logging.FieldEventType, "process_started"),
		logging.String("lock_path", guard.Path()),
		logging.String("settings_path", cfg.SettingsPath()),
	)

	store := settings.NewStore(afero.NewOsFs(), cfg.SettingsPath(), cfg.DefaultMoviePath(), logger)

	if guard.Role() == singleton.Secondary {
		logger.Info("another instance owns the scheduler; opening configurator",
			logging.String(logging.FieldEventType, "secondary_handoff"),
		)
		return runConfigurator(ctx, cfg, store, logger)
	}

	if cfg.Configurator.LaunchOnStart && !opts.SkipConfigurator {
		if err := runConfigurator(ctx, cfg, store, logger); err != nil {
			return err
		}
	} else if _, err := store.Update(func(s *settings.Settings) { s.ExitRequested = false }); err != nil {
		return err
	}

	if store.Load().ExitRequested {
		logger.Info("exit chosen in configurator; not scheduling",
			logging.String(logging.FieldEventType, "process_exit_requested"),
		)
		return nil
	}

	logDependencySnapshot(ctx, logger, cfg)

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithRunID(runID),
		scheduler.WithExitPoll(time.Duration(cfg.Scheduler.ExitPollSeconds) * time.Second),
	}
	if journal := openHistory(ctx, cfg, logger); journal != nil {
		defer journal.Close()
		schedOpts = append(schedOpts, scheduler.WithRecorder(journal))
	}
	schedOpts = append(schedOpts, opts.schedulerOptions...)

	gateway := frames.New(
		frames.ResolveBinary(cfg.Paths.WorkDir, "ffprobe", cfg.Tools.FFprobe),
		frames.ResolveBinary(cfg.Paths.WorkDir, "ffmpeg", cfg.Tools.FFmpeg),
		cfg.Tools.TimeoutSeconds,
	)
	sched := scheduler.New(
		store,
		gateway,
		wallpaper.New(cfg.Wallpaper.Command, logger),
		notifier,
		cfg.FramePath(),
		schedOpts...,
	)
	if err := sched.Run(ctx); err != nil {
		return err
	}
	logger.Info("slowmovie stopped", logging.String(logging.FieldEventType, "process_stopped"))
	return nil
}

func runConfigurator(ctx context.Context, cfg *config.Config, store *settings.Store, logger *slog.Logger) error {
	l, err := launcher.New(cfg.Configurator.Path, store.Path())
	if err != nil {
		return err
	}
	logger.Info("configurator launched",
		logging.String(logging.FieldEventType, "configurator_launched"),
		logging.String("configurator", l.Path()),
	)
	code, err := l.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("configurator closed",
		logging.String(logging.FieldEventType, "configurator_closed"),
		logging.Int("exit_code", code),
	)
	return nil
}

func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	journal, err := history.Open(ctx, cfg.History.Path, cfg.History.Keep)
	if err != nil {
		logging.WarnWithContext(logger, "history journal unavailable", "history_open_failed",
			logging.String("path", cfg.History.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
			logging.String(logging.FieldImpact, "cycles will not appear in slowmovie history"),
		)
		return nil
	}
	return journal
}

func reportFatal(ctx context.Context, logger *slog.Logger, notifier alert.Notifier, err error) {
	logging.ErrorWithContext(logger, "slowmovie stopped on error", "process_failed",
		logging.String(logging.FieldErrorKind, failure.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hintFor(err)),
	)
	alertCtx := context.WithoutCancel(ctx)
	if alertErr := notifier.Alert(alertCtx, alert.Title, err.Error()); alertErr != nil {
		logger.Warn("fatal error alert not delivered", logging.Error(alertErr))
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, failure.ErrToolMissing):
		return "install ffmpeg or place ffprobe/ffmpeg under <work_dir>/ffmpeg"
	case errors.Is(err, failure.ErrFrontEndMissing):
		return "install slowmovie-config next to slowmovie or set configurator.path"
	case errors.Is(err, failure.ErrMovieUnavailable):
		return "choose an existing movie in slowmovie-config"
	case errors.Is(err, failure.ErrZeroFrameCount):
		return "the movie has no decodable video stream; choose another file"
	case errors.Is(err, failure.ErrSettingsIO):
		return "check permissions on the settings file and work_dir"
	case errors.Is(err, failure.ErrLockAcquisition):
		return "check permissions on lock.dir"
	default:
		return "check logs for details"
	}
}

func logDependencySnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		key := strings.ToLower(strings.ReplaceAll(status.Name, " ", "_"))
		attrs = append(attrs, logging.Bool(key+"_available", status.Available))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)

	for _, result := range preflight.Failed(preflight.RunAll(ctx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
}
