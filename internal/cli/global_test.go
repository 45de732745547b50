package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/rewind/internal/config"
)

func TestAddGlobalFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "rewind"}
	AddGlobalFlags(cmd)

	for _, name := range []string{"no-tui", "config", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestLoadEnvironment_OpensStoreAndLog(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(tmpDir, "data", "history.db")
	cfg.Log.Path = filepath.Join(tmpDir, "state", "rewind.log")

	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, config.Write(configPath, cfg))
	setConfigPath(t, configPath)

	env, err := loadEnvironment()
	require.NoError(t, err)

	db, err := env.openStore()
	require.NoError(t, err)

	count, err := db.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, env.Close())
	assert.FileExists(t, cfg.Store.Path)
	assert.FileExists(t, cfg.Log.Path)
}

func TestLoadEnvironment_MissingConfig(t *testing.T) {
	setConfigPath(t, filepath.Join(t.TempDir(), "absent.toml"))

	_, err := loadEnvironment()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLoadEnvironment_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[search]\nmode = \"regex\"\n"), 0o644))
	setConfigPath(t, configPath)

	_, err := loadEnvironment()
	assert.Error(t, err)
}
