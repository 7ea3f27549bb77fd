package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOutputFileTrims(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("  逐家好  \n"), 0o644))

	got, err := ReadOutputFile(path)

	require.NoError(t, err)
	assert.Equal(t, "逐家好", got)
}

func TestReadOutputFileMissing(t *testing.T) {
	_, err := ReadOutputFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestListFilesRecursesAndSorts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"b.wav", "a.wav", filepath.Join("sub", "c.mp3")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got, err := ListFiles(dir)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, filepath.Join(dir, "a.wav"), got[0])
	assert.Equal(t, filepath.Join(dir, "b.wav"), got[1])
}

func TestWriteTextCreatesParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results", "one.txt")

	require.NoError(t, WriteText(path, "hello"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}
