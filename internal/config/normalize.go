package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	if err := c.normalizeLock(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeWallpaper()
	c.normalizeAlerts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	c.Paths.SettingsFile = strings.TrimSpace(c.Paths.SettingsFile)
	if c.Paths.SettingsFile == "" {
		c.Paths.SettingsFile = defaultSettingsFile
	}
	c.Paths.FrameFile = strings.TrimSpace(c.Paths.FrameFile)
	if c.Paths.FrameFile == "" {
		c.Paths.FrameFile = defaultFrameFile
	}
	c.Paths.DefaultMovie = strings.TrimSpace(c.Paths.DefaultMovie)
	if c.Paths.DefaultMovie == "" {
		c.Paths.DefaultMovie = defaultMovieFile
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	for _, tool := range []struct {
		key   string
		value *string
	}{
		{"tools.ffprobe", &c.Tools.FFprobe},
		{"tools.ffmpeg", &c.Tools.FFmpeg},
	} {
		trimmed := strings.TrimSpace(*tool.value)
		// Bare names are resolved against work_dir and PATH at runtime.
		if trimmed == "" || !strings.ContainsAny(trimmed, `/\`) {
			*tool.value = trimmed
			continue
		}
		if *tool.value, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", tool.key, err)
		}
	}
	if c.Tools.TimeoutSeconds <= 0 {
		c.Tools.TimeoutSeconds = defaultToolTimeout
	}
	c.Configurator.Path = strings.TrimSpace(c.Configurator.Path)
	if c.Configurator.Path != "" && strings.ContainsAny(c.Configurator.Path, `/\`) {
		if c.Configurator.Path, err = expandPath(c.Configurator.Path); err != nil {
			return fmt.Errorf("configurator.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLock() error {
	var err error
	c.Lock.Name = strings.TrimSpace(c.Lock.Name)
	if c.Lock.Name == "" {
		c.Lock.Name = defaultLockName
	}
	if strings.TrimSpace(c.Lock.Dir) == "" {
		c.Lock.Dir = os.TempDir()
	}
	if c.Lock.Dir, err = expandPath(c.Lock.Dir); err != nil {
		return fmt.Errorf("lock.dir: %w", err)
	}
	if c.Scheduler.ExitPollSeconds <= 0 {
		c.Scheduler.ExitPollSeconds = defaultExitPollSeconds
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.History.Keep < 0 {
		c.History.Keep = 0
	}
	return nil
}

func (c *Config) normalizeWallpaper() {
	command := make([]string, 0, len(c.Wallpaper.Command))
	for _, arg := range c.Wallpaper.Command {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			command = append(command, trimmed)
		}
	}
	c.Wallpaper.Command = command
}

func (c *Config) normalizeAlerts() {
	if value, ok := os.LookupEnv("SLOWMOVIE_NTFY_TOPIC"); ok && strings.TrimSpace(value) != "" {
		c.Alerts.NtfyTopic = value
	}
	c.Alerts.NtfyTopic = strings.TrimSpace(c.Alerts.NtfyTopic)
	if c.Alerts.RequestTimeout <= 0 {
		c.Alerts.RequestTimeout = defaultAlertTimeout
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("SLOWMOVIE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
