package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphdb"
)

// echoPlugin is a minimal in-process Plugin for exercising Registry without
// needing a compiled .so.
type echoPlugin struct {
	name string
}

func (p *echoPlugin) Name() string { return p.name }

func (p *echoPlugin) Call(_ graphdb.Transaction, arg graphdb.Json) (graphdb.Json, error) {
	return arg, nil
}

type failingPlugin struct{}

func (*failingPlugin) Name() string { return "failing" }

func (*failingPlugin) Call(_ graphdb.Transaction, _ graphdb.Json) (graphdb.Json, error) {
	return graphdb.Json{}, errors.New("boom")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &echoPlugin{name: "echo"}
	r.Register(p)

	got, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRegisterReplacesByName(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoPlugin{name: "echo"})
	r.Register(&echoPlugin{name: "echo"})

	assert.Len(t, r.Names(), 1)
}

func TestRegistryCallDispatchesToPlugin(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoPlugin{name: "echo"})

	arg := graphdb.NewJson("hello")
	result, err := r.Call("echo", nil, arg)
	require.NoError(t, err)
	assert.True(t, result.Equal(arg))
}

func TestRegistryCallUnknownPluginReturnsNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call("missing", nil, graphdb.NewJson(nil))
	assert.ErrorIs(t, err, graphdb.ErrNotFound)
}

func TestRegistryCallPropagatesPluginError(t *testing.T) {
	r := NewRegistry()
	r.Register(&failingPlugin{})

	_, err := r.Call("failing", nil, graphdb.NewJson(nil))
	assert.Error(t, err)
}
