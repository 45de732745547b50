// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/chazuruo/rewind/internal/config"
	"github.com/chazuruo/rewind/internal/logging"
	"github.com/chazuruo/rewind/internal/store"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath overrides the config file location (--config).
	ConfigPath string

	// Verbose forces debug logging (--verbose).
	Verbose bool

	// globalMutex protects the global flag values for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default $XDG_CONFIG_HOME/rewind/config.toml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false,
		"write debug records to the log file")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

func configPath() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

func isVerbose() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return Verbose
}

// environment is what every command needs before doing real work: the
// loaded config and a logger writing to the configured file.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger

	closers []func() error
}

// loadEnvironment reads the config named by --config (or the default
// location) and opens the log file.
func loadEnvironment() (*environment, error) {
	cfg, err := config.LoadWithDefaults(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log, logging.Options{Verbose: isVerbose()})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	return &environment{
		cfg:     cfg,
		logger:  logger,
		closers: []func() error{closeLog},
	}, nil
}

// openStore opens the history database. It is closed by Close.
func (e *environment) openStore() (*store.SQLite, error) {
	db, err := store.Open(e.cfg.Store.Path, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	e.closers = append(e.closers, db.Close)
	return db, nil
}

// Close releases everything in reverse order of acquisition.
func (e *environment) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
