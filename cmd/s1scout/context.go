package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"s1scout/internal/config"
	"s1scout/internal/scene"
)

// commandContext carries lazily loaded configuration shared by all
// subcommands. Flags are bound by pointer so values resolve after cobra
// has parsed them.
type commandContext struct {
	configFlag  *string
	dataDirFlag *string

	cfg    *config.Config
	logger *slog.Logger
}

func newCommandContext(configFlag, dataDirFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		dataDirFlag: dataDirFlag,
	}
}

// ensureConfig loads and validates the configuration once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := ""
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	c.cfg = cfg
	c.logger = newLogger(cfg.Logging)
	slog.SetDefault(c.logger)
	return cfg, nil
}

// config returns the loaded configuration, failing if PersistentPreRunE
// has not run.
func (c *commandContext) config() (*config.Config, error) {
	if c.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return c.cfg, nil
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// workspace resolves the data directory holding run artifacts.
func (c *commandContext) workspace() (scene.Workspace, error) {
	dir := "data"
	if c.dataDirFlag != nil && strings.TrimSpace(*c.dataDirFlag) != "" {
		dir = strings.TrimSpace(*c.dataDirFlag)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return scene.Workspace{}, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return scene.Workspace{Dir: dir}, nil
}
