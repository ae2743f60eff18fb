// Package plugin defines the boundary through which external code can run
// arbitrary logic against an open graphdb.Transaction: a Plugin receives
// the transaction and a Json argument, and returns a Json result. Plugins
// are treated as opaque; the host never inspects their internals beyond
// this single entry point.
package plugin

import "github.com/orneryd/graphdb"

// Plugin is the capability surface an external module implements to run
// against a live transaction. Call must not retain tx past its own
// return.
type Plugin interface {
	// Name identifies the plugin, used as the key in a Registry.
	Name() string
	// Call runs the plugin's logic against tx with the given argument.
	Call(tx graphdb.Transaction, arg graphdb.Json) (graphdb.Json, error)
}

// Registry holds plugins loaded in-process (whether compiled in directly
// or loaded from a .so via Load), keyed by name.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p to the registry under p.Name(), replacing any existing
// plugin with the same name.
func (r *Registry) Register(p Plugin) {
	r.plugins[p.Name()] = p
}

// Get returns the plugin registered under name, if any.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the names of every registered plugin.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}

// Call looks up name and invokes it against tx with arg. It fails with
// ErrorKindNotFound if no plugin is registered under name.
func (r *Registry) Call(name string, tx graphdb.Transaction, arg graphdb.Json) (graphdb.Json, error) {
	p, ok := r.Get(name)
	if !ok {
		return graphdb.Json{}, &graphdb.Error{Kind: graphdb.ErrorKindNotFound, Message: "no plugin registered: " + name}
	}
	return p.Call(tx, arg)
}
