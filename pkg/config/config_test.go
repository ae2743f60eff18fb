package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphdb/pkg/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"GRAPHDB_BACKEND",
		"GRAPHDB_DATA_DIR",
		"GRAPHDB_IN_MEMORY",
		"GRAPHDB_SYNC_WRITES",
		"GRAPHDB_PLUGIN_DIR",
	}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFromEnv()
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, "./data/graphdb", cfg.DataDir)
	assert.False(t, cfg.InMemory)
	assert.False(t, cfg.SyncWrites)
	assert.Empty(t, cfg.PluginDir)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("GRAPHDB_BACKEND", "badger")
	os.Setenv("GRAPHDB_DATA_DIR", "/tmp/graphdb-data")
	os.Setenv("GRAPHDB_IN_MEMORY", "true")
	os.Setenv("GRAPHDB_SYNC_WRITES", "true")
	os.Setenv("GRAPHDB_PLUGIN_DIR", "/tmp/plugins")

	cfg := LoadFromEnv()
	assert.Equal(t, "badger", cfg.Backend)
	assert.Equal(t, "/tmp/graphdb-data", cfg.DataDir)
	assert.True(t, cfg.InMemory)
	assert.True(t, cfg.SyncWrites)
	assert.Equal(t, "/tmp/plugins", cfg.PluginDir)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "sqlite"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresDataDirForBadger(t *testing.T) {
	cfg := &Config{Backend: "badger", InMemory: false, DataDir: ""}
	assert.Error(t, cfg.Validate())

	cfg.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestValidateAcceptsMemory(t *testing.T) {
	cfg := &Config{Backend: "memory"}
	assert.NoError(t, cfg.Validate())
}

func TestOpenDispatchesToMemoryBackend(t *testing.T) {
	cfg := &Config{Backend: "memory"}
	ds, err := cfg.Open()
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryDatastore{}, ds)
}

func TestOpenDispatchesToBadgerBackend(t *testing.T) {
	cfg := &Config{Backend: "badger", InMemory: true}
	ds, err := cfg.Open()
	require.NoError(t, err)
	bds, ok := ds.(*storage.BadgerDatastore)
	require.True(t, ok, "expected *storage.BadgerDatastore, got %T", ds)
	defer bds.Close()
}
