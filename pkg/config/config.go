// Package config loads the handful of environment-driven knobs an
// embedding application needs to open a datastore: which backend to use,
// where its data directory lives, and where to look for plugins.
//
// Config is loaded from environment variables using LoadFromEnv() and can
// be validated with Validate() before use.
//
// Example:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/orneryd/graphdb"
	"github.com/orneryd/graphdb/pkg/storage"
)

// Config is the full set of knobs an embedding application can set via
// environment variables before opening a datastore.
type Config struct {
	// Backend selects the concrete graphdb.Datastore: "memory" or
	// "badger".
	Backend string

	// DataDir is the directory BadgerDatastore persists to. Ignored by
	// the memory backend.
	DataDir string

	// InMemory runs the badger backend without touching disk, useful for
	// exercising the disk-backed code path in tests.
	InMemory bool

	// SyncWrites forces fsync after each write on the badger backend.
	SyncWrites bool

	// PluginDir names a directory of *.so plugins, for plugin.LoadDir.
	// Open does not read it.
	PluginDir string
}

// LoadFromEnv loads configuration from environment variables, falling
// back to sensible defaults (an in-process memory backend, no plugins)
// when they're unset.
//
//	GRAPHDB_BACKEND      "memory" (default) or "badger"
//	GRAPHDB_DATA_DIR     default "./data/graphdb"
//	GRAPHDB_IN_MEMORY    default "false"
//	GRAPHDB_SYNC_WRITES  default "false"
//	GRAPHDB_PLUGIN_DIR   default "" (disabled)
func LoadFromEnv() *Config {
	return &Config{
		Backend:    getEnv("GRAPHDB_BACKEND", "memory"),
		DataDir:    getEnv("GRAPHDB_DATA_DIR", "./data/graphdb"),
		InMemory:   getEnvBool("GRAPHDB_IN_MEMORY", false),
		SyncWrites: getEnvBool("GRAPHDB_SYNC_WRITES", false),
		PluginDir:  getEnv("GRAPHDB_PLUGIN_DIR", ""),
	}
}

// Validate checks the configuration for logical errors.
func (c *Config) Validate() error {
	switch c.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("config: unknown backend %q, want \"memory\" or \"badger\"", c.Backend)
	}
	if c.Backend == "badger" && !c.InMemory && c.DataDir == "" {
		return fmt.Errorf("config: badger backend requires a data dir unless in-memory mode is set")
	}
	return nil
}

// Open constructs the graphdb.Datastore named by c.Backend.
func (c *Config) Open() (graphdb.Datastore, error) {
	switch c.Backend {
	case "badger":
		return storage.NewBadgerDatastoreWithOptions(storage.BadgerOptions{
			DataDir:    c.DataDir,
			InMemory:   c.InMemory,
			SyncWrites: c.SyncWrites,
		})
	default:
		return storage.NewMemoryDatastore(), nil
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
