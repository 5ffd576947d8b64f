package config

import "os"

const (
	defaultWorkDir          = "."
	defaultStateDir         = "~/.local/share/slowmovie"
	defaultSettingsFile     = "config.json"
	defaultFrameFile        = "frame.png"
	defaultMovieFile        = "movie.mp4"
	defaultToolTimeout      = 300
	defaultLockName         = "slowmovie"
	defaultExitPollSeconds  = 5
	defaultHistoryFile      = "history.db"
	defaultHistoryKeep      = 1000
	defaultAlertTimeout     = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:      defaultWorkDir,
			StateDir:     defaultStateDir,
			SettingsFile: defaultSettingsFile,
			FrameFile:    defaultFrameFile,
			DefaultMovie: defaultMovieFile,
		},
		Tools: Tools{
			TimeoutSeconds: defaultToolTimeout,
		},
		Configurator: Configurator{
			LaunchOnStart: true,
		},
		Lock: Lock{
			Name: defaultLockName,
			Dir:  os.TempDir(),
		},
		Scheduler: Scheduler{
			ExitPollSeconds: defaultExitPollSeconds,
		},
		History: History{
			Enabled: true,
			Keep:    defaultHistoryKeep,
		},
		Alerts: Alerts{
			Desktop:        true,
			RequestTimeout: defaultAlertTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
