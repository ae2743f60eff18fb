package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifestParsesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, manifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
plugins:
  - name: hello
    file: hello.so
    version: "1.0"
    enabled: true
  - name: danger
    file: danger.so
    enabled: false
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Plugins, 2)
	assert.Equal(t, "hello", m.Plugins[0].Name)
	assert.Equal(t, "hello.so", m.Plugins[0].File)
	assert.True(t, m.Plugins[0].Enabled)
	assert.False(t, m.Plugins[1].Enabled)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), manifestFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestManifestEnabledDefaultsTrueForUnlistedFiles(t *testing.T) {
	var nilManifest *Manifest
	assert.True(t, nilManifest.enabled("anything.so"))

	m := &Manifest{Plugins: []ManifestEntry{{File: "danger.so", Enabled: false}}}
	assert.True(t, m.enabled("unrelated.so"), "a file absent from the manifest should still load")
	assert.False(t, m.enabled("danger.so"))
}

// LoadDir skips a disabled entry before ever calling plugin.Open on it, so a
// disabled .so that wouldn't even open cleanly still loads the rest of the
// directory without surfacing an error for it.
func TestLoadDirSkipsDisabledManifestEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "danger.so"), []byte("not a real plugin"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFileName), []byte(`
plugins:
  - name: danger
    file: danger.so
    enabled: false
`), 0o644))

	r := NewRegistry()
	require.NoError(t, LoadDir(r, dir))
	assert.Empty(t, r.Names())
}

func TestLoadDirWithoutManifestAttemptsEveryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-a-plugin.so"), []byte("not a real plugin"), 0o644))

	r := NewRegistry()
	// Load fails against the bogus .so (it's not a valid ELF/Mach-O plugin
	// image), but LoadDir treats that as non-fatal and returns nil.
	require.NoError(t, LoadDir(r, dir))
	assert.Empty(t, r.Names())
}
