package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
)

// TestLoad_ValidConfig tests loading a valid config file.
func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[search]
mode = "prefix"
style = "compact"

[store]
path = "/tmp/rewind-test.db"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "prefix", cfg.Search.Mode)
	assert.Equal(t, "compact", cfg.Search.Style)
	assert.Equal(t, "/tmp/rewind-test.db", cfg.Store.Path)
	// Unset sections keep their defaults
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Import.RemoveDuplicates)
}

// TestLoad_MissingFile tests that a missing file is a not-found config error.
func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, rwerrors.IsNotFound(err))

	ce, ok := rwerrors.AsConfigError(err)
	require.True(t, ok)
	assert.Equal(t, path, ce.Path)
}

// TestLoad_InvalidTOML tests that malformed TOML is rejected.
func TestLoad_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[search\nmode ="), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

// TestLoad_InvalidValue tests that validation runs after parsing.
func TestLoad_InvalidValue(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[search]\nstyle = \"huge\"\n"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.style")
}

// TestLoad_EnvOverrides tests REWIND_* variables win over the file.
func TestLoad_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[search]\nmode = \"prefix\"\n"), 0o644))

	t.Setenv("REWIND_SEARCH_MODE", "fulltext")
	t.Setenv("REWIND_SEARCH_STYLE", "full")
	t.Setenv("REWIND_IMPORT_SKIP_BUILTINS", "yes")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "fulltext", cfg.Search.Mode)
	assert.Equal(t, "full", cfg.Search.Style)
	assert.True(t, cfg.Import.SkipBuiltins)
}

// TestLoad_ExpandsHome tests that ~ in paths is expanded.
func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[store]\npath = \"~/h.db\"\n"), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "h.db"), cfg.Store.Path)
}

// TestLoadWithDefaults_NoFile tests defaults are used when no config exists.
func TestLoadWithDefaults_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadWithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Search, cfg.Search)
}

// TestWrite_RoundTrip tests that a written config loads back identically.
func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Search.Mode = "prefix"
	cfg.Store.Path = "/var/lib/rewind/history.db"
	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
