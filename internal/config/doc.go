// Package config loads and validates the SlowMovie TOML configuration.
//
// It resolves the config file from an explicit path, the user config
// directory, or the working directory, applies defaults, expands `~` and
// relative paths, and layers environment overrides (SLOWMOVIE_NTFY_TOPIC,
// SLOWMOVIE_LOG_LEVEL). Derived paths (settings JSON, frame image, lock file,
// log directory) are exposed as methods so callers never join paths by hand.
//
// This file describes how the program runs. The wallpaper state the
// configurator edits lives in the settings package instead.
package config
