package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/poemario/internal/kv"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvSource, EnvStore, EnvStorePath, EnvLogLevel, EnvConfig} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "poemario", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, cfg.Source)
	assert.Equal(t, kv.BackendFile, cfg.StoreBackend)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "storage.json"), cfg.ResolvedStorePath())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "poemario.log"), cfg.ResolvedLogFile())
}

func TestSaveAndReload(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults(path)
	cfg.Source = "https://example.org/poemas.txt"
	cfg.StoreBackend = kv.BackendSQLite
	require.NoError(t, cfg.SetTheme("nord"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/poemas.txt", loaded.Source)
	assert.Equal(t, "nord", loaded.Theme)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "storage.db"), loaded.ResolvedStorePath())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: file.txt\nstore: file\n"), 0600))

	t.Setenv(EnvSource, "env.txt")
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvStorePath, "/tmp/x.json")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "env.txt", cfg.Source)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "/tmp/x.json", cfg.ResolvedStorePath())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadUsesConfigEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: gruvbox\n"), 0600))
	t.Setenv(EnvConfig, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated\n"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
