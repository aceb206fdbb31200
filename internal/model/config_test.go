package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := DefaultAppConfig()
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultSlotKey, cfg.Storage.SlotKey)
	assert.Equal(t, 2*time.Second, cfg.Storage.WriteTimeout)
	assert.Equal(t, def.Storage.SQLite.Path, cfg.Storage.SQLite.Path)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
storage:
  backend: redis
  slot_key: boards
  write_timeout: 500ms
  redis:
    addr: cache:6380
    db: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "boards", cfg.Storage.SlotKey)
	assert.Equal(t, 500*time.Millisecond, cfg.Storage.WriteTimeout)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TASKBOARD_STORAGE_BACKEND", "redis")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: etcd\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Storage.Backend = BackendRedis
	cfg.Storage.Redis.UseKeyring = true
	cfg.Log.Level = "warn"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, loaded.Storage.Backend)
	assert.True(t, loaded.Storage.Redis.UseKeyring)
	assert.Equal(t, "warn", loaded.Log.Level)
	assert.Equal(t, cfg.Storage.WriteTimeout, loaded.Storage.WriteTimeout)
}
