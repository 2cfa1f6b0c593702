package server

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "a.zip")

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, createErr := zw.Create(name)
		require.NoError(t, createErr)

		_, writeErr := w.Write([]byte(content))
		require.NoError(t, writeErr)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}

func TestExtractZip(t *testing.T) {
	t.Parallel()

	archive := writeZip(t, map[string]string{
		"main.py":        "print('hi')\n",
		"pkg/helpers.py": "def help(): pass\n",
	})

	dest := filepath.Join(t.TempDir(), "out")
	require.NoError(t, extractZip(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(data))

	_, err = os.Stat(filepath.Join(dest, "pkg", "helpers.py"))
	assert.NoError(t, err)
}

func TestExtractZip_RejectsTraversal(t *testing.T) {
	t.Parallel()

	archive := writeZip(t, map[string]string{
		"../escape.py": "bad\n",
	})

	dest := filepath.Join(t.TempDir(), "out")
	err := extractZip(archive, dest)

	require.ErrorIs(t, err, ErrUnsafeArchivePath)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "escape.py"))
}

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	got, err := safeJoin(root, "a/b.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.py"), got)

	_, err = safeJoin(root, "../outside")
	require.ErrorIs(t, err, ErrUnsafeArchivePath)

	_, err = safeJoin(root, "a/../../outside")
	require.ErrorIs(t, err, ErrUnsafeArchivePath)
}
