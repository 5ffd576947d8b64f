package main

import (
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"slowmovie/internal/config"
	"slowmovie/internal/settings"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// settingsStore opens the shared settings file without a logger; CLI
// commands report problems on stdout instead.
func (c *commandContext) settingsStore(cfg *config.Config) *settings.Store {
	return settings.NewStore(afero.NewOsFs(), cfg.SettingsPath(), cfg.DefaultMoviePath(), nil)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
