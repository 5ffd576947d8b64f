package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLock(); err != nil {
		return err
	}
	if err := c.validateWallpaper(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	for _, file := range []struct {
		key   string
		value string
	}{
		{"paths.settings_file", c.Paths.SettingsFile},
		{"paths.frame_file", c.Paths.FrameFile},
	} {
		if filepath.Base(file.value) != file.value {
			return fmt.Errorf("%s must be a file name, got %q", file.key, file.value)
		}
	}
	if c.Paths.SettingsFile == c.Paths.FrameFile {
		return errors.New("paths.settings_file and paths.frame_file must differ")
	}
	if !strings.EqualFold(filepath.Ext(c.Paths.FrameFile), ".png") {
		return fmt.Errorf("paths.frame_file must be a .png file, got %q", c.Paths.FrameFile)
	}
	return nil
}

func (c *Config) validateLock() error {
	if strings.ContainsAny(c.Lock.Name, `/\`) {
		return fmt.Errorf("lock.name must not contain path separators, got %q", c.Lock.Name)
	}
	return nil
}

func (c *Config) validateWallpaper() error {
	if len(c.Wallpaper.Command) == 0 {
		return nil
	}
	for _, arg := range c.Wallpaper.Command {
		if strings.Contains(arg, "{path}") {
			return nil
		}
	}
	return errors.New("wallpaper.command must reference {path}")
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
