package artstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	htmlBytes = []byte("<!DOCTYPE html><html>not found</html>")
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ST01-001.webp", webpBytes)
	writeFile(t, dir, "ST01-002.png", pngBytes)
	writeFile(t, dir, "GD01-004.webp", htmlBytes) // corrupt
	writeFile(t, dir, "GD01-005.jpg", pngBytes)   // wrong format for extension
	writeFile(t, dir, "notes.txt", []byte("unrelated"))
	writeFile(t, dir, "sketch.gif", []byte("GIF89a"))

	res, err := Clean(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Scanned)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 0, res.Errors)
	assert.ElementsMatch(t, []string{"GD01-004.webp", "GD01-005.jpg"}, res.Removed)

	// Valid assets and unrecognized files survive.
	for _, name := range []string{"ST01-001.webp", "ST01-002.png", "notes.txt", "sketch.gif"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"GD01-004.webp", "GD01-005.jpg"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), name)
	}
}

func TestScanIsReadOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ST01-001.webp", webpBytes)
	writeFile(t, dir, "bad.png", htmlBytes)
	writeFile(t, dir, "notes.txt", []byte("unrelated"))

	statuses, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []FileStatus{
		{Name: "ST01-001.webp", Valid: true},
		{Name: "bad.png", Valid: false},
	}, statuses)

	// Nothing was deleted.
	for _, name := range []string{"ST01-001.webp", "bad.png", "notes.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestScanMissingDir(t *testing.T) {
	statuses, err := Scan(filepath.Join(t.TempDir(), "no_such_dir"))
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestCleanIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ST01-001.webp", webpBytes)
	writeFile(t, dir, "bad.png", htmlBytes)

	first, err := Clean(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Deleted)

	second, err := Clean(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Scanned)
	assert.Equal(t, 0, second.Deleted)
}

func TestCleanMissingDir(t *testing.T) {
	res, err := Clean(filepath.Join(t.TempDir(), "no_such_dir"))
	require.NoError(t, err)
	assert.Equal(t, CleanResult{}, res)
}

func TestCanonicalExt(t *testing.T) {
	t.Run("webp wins over png", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ST01-001.webp", webpBytes)
		writeFile(t, dir, "ST01-001.png", pngBytes)

		ext, ok := CanonicalExt(dir, "ST01-001")
		require.True(t, ok)
		assert.Equal(t, "webp", ext)
	})

	t.Run("invalid webp falls through to png", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ST01-001.webp", htmlBytes)
		writeFile(t, dir, "ST01-001.png", pngBytes)

		ext, ok := CanonicalExt(dir, "ST01-001")
		require.True(t, ok)
		assert.Equal(t, "png", ext)
	})

	t.Run("jpeg variants in order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "GD01-004.jpeg", jpegBytes)

		ext, ok := CanonicalExt(dir, "GD01-004")
		require.True(t, ok)
		assert.Equal(t, "jpeg", ext)
	})

	t.Run("no valid asset", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "GD01-004.webp", htmlBytes)

		_, ok := CanonicalExt(dir, "GD01-004")
		assert.False(t, ok)
	})
}
