package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/inventory"
	"curator/internal/logging"
)

// commandContext lazily builds the shared dependencies of the command tree.
// Config, logger, and store are each constructed at most once per process.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *inventory.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
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

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) ensureStore() (*inventory.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = inventory.Open(cfg)
	})
	return c.store, c.storeErr
}

// closeStore releases the database handle when one was opened. Run by the
// root command after every invocation.
func (c *commandContext) closeStore() {
	if c.store != nil {
		c.store.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Annotations != nil && p.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
