// Package config provides configuration management for rewind.
//
// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
)

// DefaultConfigPath returns where the config file lives when no path is given:
// $XDG_CONFIG_HOME/rewind/config.toml, falling back to ~/.config/rewind/config.toml.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rewind", "config.toml")
	}
	return filepath.Join(homeDir(), ".config", "rewind", "config.toml")
}

// DetectConfigPath returns the default config path if a file exists there,
// or empty string if none exists (caller should use defaults).
func DetectConfigPath() string {
	path := DefaultConfigPath()
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &rwerrors.ConfigError{Path: path, Err: rwerrors.ErrNotFound}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rwerrors.ConfigError{Path: path, Err: rwerrors.Wrap(err, "read")}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &rwerrors.ConfigError{Path: path, Err: rwerrors.Wrap(err, "parse")}
	}

	applyEnvOverrides(cfg)
	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &rwerrors.ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// LoadWithDefaults loads path when it is non-empty, otherwise the config at the
// default location. If no config file is found, returns defaults with
// environment overrides applied.
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPaths(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &rwerrors.ConfigError{Err: err}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: REWIND_<SECTION>_<FIELD>
//
// Examples:
// - REWIND_SEARCH_MODE overrides [search].mode
// - REWIND_STORE_PATH overrides [store].path
//
// Boolean fields: use "true"/"false" strings
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyString("REWIND_SEARCH_MODE", &c.Search.Mode)
	applyString("REWIND_SEARCH_STYLE", &c.Search.Style)

	applyString("REWIND_STORE_PATH", &c.Store.Path)

	applyString("REWIND_LOG_LEVEL", &c.Log.Level)
	applyString("REWIND_LOG_PATH", &c.Log.Path)
	applyString("REWIND_LOG_FORMAT", &c.Log.Format)

	applyBool("REWIND_IMPORT_SKIP_BUILTINS", &c.Import.SkipBuiltins)
	applyBool("REWIND_IMPORT_REMOVE_DUPLICATES", &c.Import.RemoveDuplicates)
}

// expandPaths expands a leading ~ to the home directory in file paths.
func expandPaths(c *Config) {
	c.Store.Path = expandHome(c.Store.Path)
	c.Log.Path = expandHome(c.Log.Path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
}

// String renders the config as TOML, mostly for `rewind init --print`.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}
