package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	stdplugin "plugin"
	"reflect"
	"sync"

	"github.com/orneryd/graphdb"
)

// reflectPlugin wraps a dynamically loaded .so's exported "Plugin" symbol,
// calling its Name/Call methods by reflection. A plugin built against a
// mismatched copy of this module can still fail to satisfy the Plugin
// interface by direct assertion (distinct package instances produce
// distinct types even with identical method sets), so Name/Call are
// invoked by method name instead of via a type assertion to Plugin.
type reflectPlugin struct {
	name string
	val  reflect.Value
}

func (p *reflectPlugin) Name() string {
	return p.name
}

func (p *reflectPlugin) Call(tx graphdb.Transaction, arg graphdb.Json) (graphdb.Json, error) {
	method := p.val.MethodByName("Call")
	if !method.IsValid() {
		return graphdb.Json{}, fmt.Errorf("plugin %s: no Call method", p.name)
	}
	results := method.Call([]reflect.Value{reflect.ValueOf(tx), reflect.ValueOf(arg)})
	if len(results) != 2 {
		return graphdb.Json{}, fmt.Errorf("plugin %s: Call returned %d values, want 2", p.name, len(results))
	}
	result, _ := results[0].Interface().(graphdb.Json)
	if errVal := results[1].Interface(); errVal != nil {
		err, ok := errVal.(error)
		if !ok {
			return graphdb.Json{}, fmt.Errorf("plugin %s: Call returned a non-error second value", p.name)
		}
		return result, err
	}
	return result, nil
}

// LoadDir scans dir for *.so files and registers every plugin it can load
// into r. A file that fails to load is skipped (not fatal) since a single
// bad plugin shouldn't prevent the rest of the directory from loading.
//
// If dir contains a manifest.yaml (see Manifest), entries with Enabled
// false are skipped without being opened; files absent from the manifest,
// or present with no manifest at all, load as before.
func LoadDir(r *Registry, dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat plugin dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("plugin path is not a directory: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		return fmt.Errorf("glob plugin dir: %w", err)
	}

	manifest, err := LoadManifest(filepath.Join(dir, manifestFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load plugin manifest: %w", err)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║ Loading Plugins                                              ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")

	var mu sync.Mutex
	loaded := 0
	for _, path := range matches {
		base := filepath.Base(path)
		if !manifest.enabled(base) {
			fmt.Printf("║ – %-58s ║\n", base+": disabled in manifest")
			continue
		}
		p, err := Load(path)
		if err != nil {
			fmt.Printf("║ ⚠ %-58s ║\n", base+": "+err.Error())
			continue
		}
		mu.Lock()
		r.Register(p)
		mu.Unlock()
		loaded++
		fmt.Printf("║ ✓ %-58s ║\n", p.Name())
	}

	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Loaded: %d plugins %40s ║\n", loaded, "")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	return nil
}

// Load opens a single .so file and adapts its exported "Plugin" symbol
// into a Plugin.
func Load(path string) (Plugin, error) {
	handle, err := stdplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	sym, err := handle.Lookup("Plugin")
	if err != nil {
		return nil, fmt.Errorf("%s: no exported Plugin symbol", path)
	}

	val := reflect.ValueOf(sym)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	nameMethod := val.MethodByName("Name")
	if !nameMethod.IsValid() {
		return nil, fmt.Errorf("%s: Plugin has no Name() method", path)
	}
	nameResults := nameMethod.Call(nil)
	if len(nameResults) != 1 || nameResults[0].Kind() != reflect.String {
		return nil, fmt.Errorf("%s: Name() has an unexpected signature", path)
	}

	return &reflectPlugin{name: nameResults[0].String(), val: val}, nil
}
