package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Manifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "run.yaml")
	content := "engine: xpath\nsuite: " + filepath.Join("testdata", "suite", "catalog.xml") + "\noutput: markdown\n"
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))

	out, err := execute(t, "run", "--manifest", manifest, "--db", tempDB(t))

	require.NoError(t, err)
	assert.Contains(t, out, "# Compliance Report: xpath")
}

func TestRun_FlagsOverrideManifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "run.yaml")
	content := "engine: xpath\nsuite: " + filepath.Join("testdata", "suite", "catalog.xml") + "\noutput: markdown\n"
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))

	out, err := execute(t, "run", "--manifest", manifest, "--db", tempDB(t), "-o", "summary")

	require.NoError(t, err)
	assert.Contains(t, out, "Pass rate:")
	assert.NotContains(t, out, "# Compliance Report")
}

func TestRun_BrokenManifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("engine: xpath\nsuit: typo\n"), 0o644))

	_, err := execute(t, "run", "--manifest", manifest, "--db", tempDB(t))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
