package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTempFile creates a file holding the given content in a temporary
// directory cleaned up with the test, and returns its path.
func CreateTempFile(t *testing.T, content string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), "agentcheck_tests_")
	require.NoError(t, err)

	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	return file.Name()
}

// WriteProject creates the given files (path relative to the project root →
// content) in a temporary directory and returns the project root.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(path))

		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o600))
	}

	return root
}
