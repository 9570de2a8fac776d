package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, mirroring
// testing.T.Chdir, which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestResolveFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(EnvFile, "")

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvFile, "/env/tasks.md")
		got, err := ResolveFile("/flag/tasks.md", "/config/tasks.md")
		require.NoError(t, err)
		assert.Equal(t, "/flag/tasks.md", got)
	})

	t.Run("config beats env", func(t *testing.T) {
		t.Setenv(EnvFile, "/env/tasks.md")
		got, err := ResolveFile("", "/config/tasks.md")
		require.NoError(t, err)
		assert.Equal(t, "/config/tasks.md", got)
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv(EnvFile, "/env/tasks.md")
		got, err := ResolveFile("", "")
		require.NoError(t, err)
		assert.Equal(t, "/env/tasks.md", got)
	})

	t.Run("default in working directory", func(t *testing.T) {
		got, err := ResolveFile("", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, DefaultFileName), got)
	})
}

func TestResolveFileLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(EnvFile, "")

	legacy := filepath.Join(dir, LegacyFileName)
	require.NoError(t, os.WriteFile(legacy, []byte("{}\n"), 0o644))

	// Only the legacy file exists: keep using it.
	got, err := ResolveFile("", "")
	require.NoError(t, err)
	assert.Equal(t, legacy, got)

	// Once the default file exists it wins over the legacy one.
	def := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(def, nil, 0o644))
	got, err = ResolveFile("", "")
	require.NoError(t, err)
	assert.Equal(t, def, got)
}
