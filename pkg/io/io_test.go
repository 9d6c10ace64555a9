package io

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_IsSameFileSystem(t *testing.T) {
	ofs := &OSFileSystem{}
	dir := t.TempDir()

	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.WriteFile(first, nil, 0o644))
	require.NoError(t, os.WriteFile(second, nil, 0o644))

	t.Run("same file system", func(t *testing.T) {
		isSame, err := ofs.IsSameFileSystem(first, second)
		assert.NoError(t, err)
		assert.True(t, isSame)
	})

	t.Run("non-existent source path", func(t *testing.T) {
		isSame, err := ofs.IsSameFileSystem("/non/existent/source/path", second)
		assert.NoError(t, err)
		assert.False(t, isSame)
	})

	t.Run("non-existent target path", func(t *testing.T) {
		isSame, err := ofs.IsSameFileSystem(first, "/non/existent/target/path")
		assert.NoError(t, err)
		assert.False(t, isSame)
	})
}

func TestOSFileSystem_Rename(t *testing.T) {
	ofs := &OSFileSystem{}
	dir := t.TempDir()

	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "renamed.mkv")
	require.NoError(t, os.WriteFile(source, []byte("data"), 0o644))

	require.NoError(t, ofs.Rename(source, target))
	assert.False(t, ofs.Exists(source))
	assert.True(t, ofs.Exists(target))

	require.NoError(t, os.WriteFile(source, []byte("data"), 0o644))
	assert.ErrorIs(t, ofs.Rename(source, target), ErrFileExists)
}

func TestOSFileSystem_Link(t *testing.T) {
	ofs := &OSFileSystem{}
	dir := t.TempDir()

	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "linked.mkv")
	require.NoError(t, os.WriteFile(source, []byte("data"), 0o644))

	require.NoError(t, ofs.Link(source, target))
	assert.True(t, ofs.Exists(source))

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	assert.ErrorIs(t, ofs.Link(source, target), ErrFileExists)
}

func TestOSFileSystem_Copy(t *testing.T) {
	ofs := &OSFileSystem{}
	dir := t.TempDir()

	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "copied.mkv")
	require.NoError(t, os.WriteFile(source, []byte("data"), 0o644))

	n, err := ofs.Copy(source, target)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.True(t, ofs.Exists(source))

	_, err = ofs.Copy(source, target)
	assert.ErrorIs(t, err, ErrFileExists)

	_, err = ofs.Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "other"))
	assert.Error(t, err)
}

func TestOSFileSystem_WriteWalkRemove(t *testing.T) {
	ofs := &OSFileSystem{}
	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, ofs.MkdirAll(nested, 0o755))
	require.NoError(t, ofs.WriteFile(filepath.Join(nested, "file.txt"), []byte("hi")))

	var files []string
	err := ofs.Walk(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(nested, "file.txt")}, files)

	require.NoError(t, ofs.Remove(files[0]))
	assert.False(t, ofs.Exists(files[0]))
}
