package plugin

import (
	"os"

	"gopkg.in/yaml.v3"
)

// manifestFileName is the file LoadDir looks for inside a plugin
// directory. Its absence is not an error: a directory with no manifest
// loads every *.so it contains, same as before manifests existed.
const manifestFileName = "manifest.yaml"

// ManifestEntry describes one plugin's expected file and whether LoadDir
// should load it, mirroring the teacher's apoc.Config category/function
// toggles but scoped to individual plugin files rather than APOC function
// names.
type ManifestEntry struct {
	// Name is descriptive only; LoadDir matches manifest entries to files
	// by File, not Name, since Name isn't knowable until the .so is opened.
	Name string `yaml:"name"`
	// File is the plugin's base filename within the directory, e.g.
	// "hello_world.so".
	File string `yaml:"file"`
	// Version is descriptive only; LoadDir does not enforce it.
	Version string `yaml:"version,omitempty"`
	// Enabled gates whether LoadDir loads this file. A file with no
	// matching entry loads as if enabled (see Manifest.enabled).
	Enabled bool `yaml:"enabled"`
}

// Manifest lists the plugins a directory is expected to contain.
type Manifest struct {
	Plugins []ManifestEntry `yaml:"plugins"`
}

// LoadManifest reads and parses a YAML plugin manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// enabled reports whether file is permitted to load per m. A nil manifest,
// or a file with no matching entry, is enabled by default so an unlisted
// .so still loads.
func (m *Manifest) enabled(file string) bool {
	if m == nil {
		return true
	}
	for _, p := range m.Plugins {
		if p.File == file {
			return p.Enabled
		}
	}
	return true
}
