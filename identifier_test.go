package graphdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentifierValid(t *testing.T) {
	cases := []string{
		"a",
		"Z",
		"0",
		"_",
		"-",
		"user_account-1",
		strings.Repeat("x", MaxIdentifierLength),
	}
	for _, s := range cases {
		id, err := NewIdentifier(s)
		require.NoError(t, err, "NewIdentifier(%q)", s)
		assert.Equal(t, s, id.String())
	}
}

func TestNewIdentifierEmpty(t *testing.T) {
	_, err := NewIdentifier("")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestNewIdentifierTooLong(t *testing.T) {
	_, err := NewIdentifier(strings.Repeat("x", MaxIdentifierLength+1))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestNewIdentifierInvalidBytes(t *testing.T) {
	cases := []string{"foo bar", "foo.bar", "foo/bar", "foo@bar", "héllo", "foo\n"}
	for _, s := range cases {
		_, err := NewIdentifier(s)
		assert.ErrorIs(t, err, ErrInvalidValue, "NewIdentifier(%q)", s)
	}
}

func TestMustIdentifierPanics(t *testing.T) {
	assert.Panics(t, func() { MustIdentifier("") })
}

func TestMustIdentifierSucceeds(t *testing.T) {
	id := MustIdentifier("person")
	assert.Equal(t, "person", id.String())
}

func TestIdentifierEqualAndLess(t *testing.T) {
	a := MustIdentifier("alpha")
	b := MustIdentifier("beta")
	a2 := MustIdentifier("alpha")

	assert.True(t, a.Equal(a2))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestIdentifierIsZero(t *testing.T) {
	var zero Identifier
	assert.True(t, zero.IsZero())
	assert.False(t, MustIdentifier("nonzero").IsZero())
}
