// Package config provides configuration management for rewind.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"os"
	"path/filepath"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
)

// Config is the top-level configuration struct for rewind.
type Config struct {
	Search SearchConfig `toml:"search"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
	Import ImportConfig `toml:"import"`
}

// SearchConfig contains settings read by the search command.
type SearchConfig struct {
	// Mode selects the matching algorithm used by the store.
	// Valid values: "prefix", "fulltext", "fuzzy".
	Mode string `toml:"mode"`

	// Style selects the interactive layout density.
	// Valid values: "auto", "compact", "full".
	Style string `toml:"style"`
}

// StoreConfig contains history database settings.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `toml:"path"`
}

// LogConfig contains log output settings.
type LogConfig struct {
	// Level is the minimum level written.
	// Valid values: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Path is the log file. Logs never go to the terminal.
	Path string `toml:"path"`

	// Format selects the handler.
	// Valid values: "text", "json".
	Format string `toml:"format"`
}

// ImportConfig contains shell history import settings.
type ImportConfig struct {
	// SkipBuiltins drops navigation and shell builtins (cd, ls, exit, ...).
	SkipBuiltins bool `toml:"skip_builtins"`

	// RemoveDuplicates drops consecutive repeats of the same command.
	RemoveDuplicates bool `toml:"remove_duplicates"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Mode:  "fuzzy",
			Style: "auto",
		},
		Store: StoreConfig{
			Path: filepath.Join(dataHome(), "rewind", "history.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Path:   filepath.Join(stateHome(), "rewind", "rewind.log"),
			Format: "text",
		},
		Import: ImportConfig{
			SkipBuiltins:     false,
			RemoveDuplicates: true,
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	validModes := map[string]bool{
		"prefix":   true,
		"fulltext": true,
		"fuzzy":    true,
	}
	if !validModes[c.Search.Mode] {
		return rwerrors.Wrapf(rwerrors.ErrInvalid, "search.mode must be one of: prefix, fulltext, fuzzy; got %q", c.Search.Mode)
	}

	validStyles := map[string]bool{
		"auto":    true,
		"compact": true,
		"full":    true,
	}
	if !validStyles[c.Search.Style] {
		return rwerrors.Wrapf(rwerrors.ErrInvalid, "search.style must be one of: auto, compact, full; got %q", c.Search.Style)
	}

	if c.Store.Path == "" {
		return rwerrors.Wrap(rwerrors.ErrInvalid, "store.path cannot be empty")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return rwerrors.Wrapf(rwerrors.ErrInvalid, "log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Log.Format] {
		return rwerrors.Wrapf(rwerrors.ErrInvalid, "log.format must be one of: text, json; got %q", c.Log.Format)
	}

	return nil
}

// dataHome returns $XDG_DATA_HOME or ~/.local/share.
func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "share")
}

// stateHome returns $XDG_STATE_HOME or ~/.local/state.
func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
