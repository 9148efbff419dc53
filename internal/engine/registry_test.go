package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopEngine struct {
	Engine
	name string
}

func (e *nopEngine) Name() string { return e.name }

func TestRegistry_New(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alpha", func() (Engine, error) {
		return &nopEngine{name: "alpha"}, nil
	})

	eng, err := reg.New("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", eng.Name())
}

func TestRegistry_UnknownNameListsAvailable(t *testing.T) {
	reg := NewRegistry()
	reg.Register("beta", func() (Engine, error) { return &nopEngine{name: "beta"}, nil })
	reg.Register("alpha", func() (Engine, error) { return &nopEngine{name: "alpha"}, nil })

	_, err := reg.New("gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown engine "gamma"`)
	assert.Contains(t, err.Error(), "alpha, beta")
}
