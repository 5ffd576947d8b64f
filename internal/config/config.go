package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	WorkDir      string `toml:"work_dir"`
	StateDir     string `toml:"state_dir"`
	SettingsFile string `toml:"settings_file"`
	FrameFile    string `toml:"frame_file"`
	DefaultMovie string `toml:"default_movie"`
}

// Tools contains the external frame tools.
type Tools struct {
	FFprobe        string `toml:"ffprobe"`
	FFmpeg         string `toml:"ffmpeg"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Configurator describes the configuration front-end process.
type Configurator struct {
	Path          string `toml:"path"`
	LaunchOnStart bool   `toml:"launch_on_start"`
}

// Wallpaper overrides the platform wallpaper backend.
type Wallpaper struct {
	// Command replaces the built-in backend. The literal {path} in any
	// argument is replaced with the absolute image path.
	Command []string `toml:"command"`
}

// Lock names the machine-wide singleton lock.
type Lock struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
}

// Scheduler contains frame loop timing.
type Scheduler struct {
	ExitPollSeconds int `toml:"exit_poll_seconds"`
}

// History controls the cycle journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Keep    int    `toml:"keep"`
}

// Alerts controls how fatal errors are surfaced.
type Alerts struct {
	Desktop        bool   `toml:"desktop"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for SlowMovie.
//
// The per-user wallpaper state (movie, interval, frame index, exit flag) is
// not part of this file; it lives in the settings JSON under Paths.WorkDir so
// the configurator and the scheduler can share it.
type Config struct {
	Paths        Paths        `toml:"paths"`
	Tools        Tools        `toml:"tools"`
	Configurator Configurator `toml:"configurator"`
	Wallpaper    Wallpaper    `toml:"wallpaper"`
	Lock         Lock         `toml:"lock"`
	Scheduler    Scheduler    `toml:"scheduler"`
	History      History      `toml:"history"`
	Alerts       Alerts       `toml:"alerts"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slowmovie/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slowmovie.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogDir returns the directory holding per-run log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.StateDir, "logs")
}

// SettingsPath returns the absolute path of the shared settings JSON.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Paths.WorkDir, c.Paths.SettingsFile)
}

// FramePath returns the fixed location the extracted frame is written to.
func (c *Config) FramePath() string {
	return filepath.Join(c.Paths.WorkDir, c.Paths.FrameFile)
}

// DefaultMoviePath returns the movie used when no settings file exists yet.
func (c *Config) DefaultMoviePath() string {
	return filepath.Join(c.Paths.WorkDir, c.Paths.DefaultMovie)
}

// LockPath returns the singleton lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Lock.Dir, c.Lock.Name+".lock")
}

// FFprobeBinary returns the configured ffprobe executable, or the bare name
// when it should be resolved at runtime.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Tools.FFprobe); v != "" {
		return v
	}
	return "ffprobe"
}

// FFmpegBinary returns the configured ffmpeg executable, or the bare name
// when it should be resolved at runtime.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Tools.FFmpeg); v != "" {
		return v
	}
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
