package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	data := buildZip(t, map[string]string{
		"cat.png":        "png-bytes",
		"nested/dog.jpg": "jpg-bytes",
	})
	dest := t.TempDir()

	paths, err := Extract(bytes.NewReader(data), int64(len(data)), dest)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	body, err := os.ReadFile(filepath.Join(dest, "cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))

	body, err = os.ReadFile(filepath.Join(dest, "nested", "dog.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpg-bytes", string(body))
}

func TestExtract_InvalidArchive(t *testing.T) {
	junk := []byte("this is not a zip file at all")
	_, err := Extract(bytes.NewReader(junk), int64(len(junk)), t.TempDir())
	require.ErrorIs(t, err, ErrInvalidArchive)
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"../escape.txt": "nope",
	})
	dest := t.TempDir()

	_, err := Extract(bytes.NewReader(data), int64(len(data)), dest)
	require.ErrorIs(t, err, ErrInvalidArchive)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtract_SkipsDirectories(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("folder/")
	require.NoError(t, err)
	f, err := w.Create("folder/a.png")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	paths, err := Extract(bytes.NewReader(buf.Bytes()), int64(buf.Len()), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, paths, 1)
	assert.Equal(t, "a.png", filepath.Base(paths[0]))
}
