package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_Suites(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("testdata", "registry.cue"))
	require.NoError(t, err)

	require.Len(t, reg.Suites, 3)

	qt3, err := reg.Suite("qt3")
	require.NoError(t, err)
	assert.Equal(t, "qt3", qt3.Name)
	assert.Equal(t, "suites/qt3/catalog.xml", qt3.Catalog)
	assert.Equal(t, "query", qt3.Dialect)

	xsd, err := reg.Suite("xsd")
	require.NoError(t, err)
	assert.Equal(t, "schema", xsd.Dialect)
}

func TestLoadRegistry_EngineOverrides(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("testdata", "registry.cue"))
	require.NoError(t, err)

	spec, ok := reg.Engines["xpath"]
	require.True(t, ok)
	assert.Equal(t, []string{"XP10"}, spec.Specs)
	assert.Equal(t, []string{"higherOrderFunctions", "module"}, spec.UnsupportedFeatures)
}

func TestLoadRegistry_UnknownSuiteListsKnown(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("testdata", "registry.cue"))
	require.NoError(t, err)

	_, err = reg.Suite("qt4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown suite "qt4"`)
}

func TestLoadRegistry_BadDialect(t *testing.T) {
	_, err := LoadRegistry(filepath.Join("testdata", "bad-dialect.cue"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dialect "yaml"`)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join("testdata", "no-such.cue"))

	assert.Error(t, err)
}
