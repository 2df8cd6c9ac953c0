package osfs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/fatsynth/backing/osfs"
)

func TestFileSystem_GetDirectory__ListsEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	fs := osfs.New(root)
	dir, err := fs.GetDirectory("/")
	require.NoError(t, err)

	entries, err := dir.Entries()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	assert.True(t, names["a.txt"])
	assert.True(t, names["sub"])
}

func TestFileSystem_GetFile__ReadAtZeroFillsPastEOF(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644))

	fs := osfs.New(root)
	f, err := fs.GetFile("/a.txt")
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := f.ReadAt(0, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n) // short read past EOF is not an error...
	assert.Equal(t, []byte{'h', 'i', 0, 0, 0, 0, 0, 0}, buf) // ...and the rest reads as zero
}

func TestFileSystem_GetMetadata__ReportsDirectoryAndSize(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	fs := osfs.New(root)
	meta, err := fs.GetMetadata("/a.txt")
	require.NoError(t, err)
	assert.False(t, meta.IsDirectory)
	assert.EqualValues(t, 5, meta.Size)

	dirMeta, err := fs.GetMetadata("/")
	require.NoError(t, err)
	assert.True(t, dirMeta.IsDirectory)
}

func TestFileSystem_GetFile__DirectoryIsError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	fs := osfs.New(root)
	_, err := fs.GetFile("/sub")
	assert.Error(t, err)
}

func TestFileSystem_GetDirectory__MissingPathIsError(t *testing.T) {
	fs := osfs.New(t.TempDir())
	_, err := fs.GetDirectory("/nope")
	assert.Error(t, err)
}
