package fsentry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCopyTo tests file copying and the overwrite guard
func TestCopyTo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "payload")

	e, err := New(src)
	require.NoError(t, err)

	copied, err := e.CopyTo(dst, false)
	require.NoError(t, err)
	assert.Equal(t, dst, copied.OriginalPath())
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// Source handle is untouched.
	assert.Equal(t, src, e.OriginalPath())
	assert.True(t, e.Exists())

	_, err = e.CopyTo(dst, false)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	writeFile(t, src, "updated")
	_, err = e.CopyTo(dst, true)
	require.NoError(t, err)
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))
}

// TestCopyToSelf tests that copying an entry onto itself is refused
// without touching the data
func TestCopyToSelf(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "payload")

	e, err := New(src)
	require.NoError(t, err)

	_, err = e.CopyTo(src, true)
	assert.ErrorIs(t, err, ErrNotSupported)

	// A different path to the same file is refused too.
	alias := filepath.Join(dir, "alias.txt")
	require.NoError(t, os.Link(src, alias))
	_, err = e.CopyTo(alias, true)
	assert.ErrorIs(t, err, ErrNotSupported)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

// TestCopyToGuards tests source and destination validation
func TestCopyToGuards(t *testing.T) {
	dir := t.TempDir()
	missing, err := New(filepath.Join(dir, "nope.txt"))
	require.NoError(t, err)
	_, err = missing.CopyTo(filepath.Join(dir, "out.txt"), false)
	// Directory-flavored, but the base kind matches too.
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "x")
	e, err := New(src)
	require.NoError(t, err)
	_, err = e.CopyTo("bad*dest", false)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

// TestCopyToDirectory tests copying into a directory keeping the name
func TestCopyToDirectory(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	src := filepath.Join(dir, "keep.txt")
	writeFile(t, src, "x")

	e, err := New(src)
	require.NoError(t, err)
	copied, err := e.CopyToDirectory(target, false)
	require.NoError(t, err)
	assert.Equal(t, "keep.txt", copied.Name())
	assert.True(t, copied.Exists())

	_, err = e.CopyToDirectory(filepath.Join(dir, "not-a-dir"), false)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)

	_, err = e.CopyToDirectory(src, false)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)

	// Copying into the entry's own directory hands back a fresh handle
	// and leaves the file alone.
	same, err := e.CopyToDirectory(dir, false)
	require.NoError(t, err)
	assert.Equal(t, e.FullPath(), same.FullPath())
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

// TestMoveTo tests moving and handle repointing
func TestMoveTo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "moved.txt")
	writeFile(t, src, "cargo")

	e, err := New(src)
	require.NoError(t, err)
	require.NoError(t, e.MoveTo(dst))

	assert.Equal(t, dst, e.OriginalPath())
	assert.True(t, e.Exists())
	_, statErr := os.Stat(src)
	assert.True(t, os.IsNotExist(statErr))

	// An occupied destination is refused.
	writeFile(t, src, "other")
	other, err := New(src)
	require.NoError(t, err)
	assert.ErrorIs(t, other.MoveTo(dst), ErrAlreadyExists)
	assert.Equal(t, src, other.OriginalPath())
}

// TestMoveToDirectory tests moving into a directory keeping the name
func TestMoveToDirectory(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	src := filepath.Join(dir, "keep.txt")
	writeFile(t, src, "x")

	e, err := New(src)
	require.NoError(t, err)
	require.NoError(t, e.MoveToDirectory(target))
	assert.Equal(t, filepath.Join(target, "keep.txt"), e.OriginalPath())
	assert.True(t, e.Exists())

	// Moving into the current directory is a no-op, not a collision.
	require.NoError(t, e.MoveToDirectory(target))
	assert.True(t, e.Exists())
	assert.Equal(t, filepath.Join(target, "keep.txt"), e.OriginalPath())
}

// TestRename tests in-place renaming and bare-name enforcement
func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	writeFile(t, src, "x")

	e, err := New(src)
	require.NoError(t, err)
	require.NoError(t, e.Rename("new.txt"))
	assert.Equal(t, "new.txt", e.Name())
	assert.Equal(t, dir, e.DirectoryName())

	// Renaming to the current name is a no-op, not a collision.
	require.NoError(t, e.Rename("new.txt"))
	assert.Equal(t, "new.txt", e.Name())
	assert.True(t, e.Exists())

	assert.ErrorIs(t, e.Rename("sub/new.txt"), ErrNotSupported)
	assert.ErrorIs(t, e.Rename("bad|name"), ErrInvalidPath)
}

// TestReplace tests destination replacement with backup
func TestReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "incoming.txt")
	dst := filepath.Join(dir, "current.txt")
	bak := filepath.Join(dir, "current.bak")
	writeFile(t, src, "new version")
	writeFile(t, dst, "old version")

	e, err := New(src)
	require.NoError(t, err)
	require.NoError(t, e.Replace(dst, bak))

	assert.Equal(t, dst, e.OriginalPath())
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new version", string(data))
	data, err = os.ReadFile(bak)
	require.NoError(t, err)
	assert.Equal(t, "old version", string(data))

	// The destination must already exist.
	src2 := filepath.Join(dir, "again.txt")
	writeFile(t, src2, "x")
	e2, err := New(src2)
	require.NoError(t, err)
	assert.ErrorIs(t, e2.Replace(filepath.Join(dir, "absent.txt"), ""), ErrNotFound)
}

// TestReplaceBackupOccupied tests that an existing backup path aborts
// the replacement with everything left in place
func TestReplaceBackupOccupied(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "incoming.txt")
	dst := filepath.Join(dir, "current.txt")
	bak := filepath.Join(dir, "current.bak")
	writeFile(t, src, "new version")
	writeFile(t, dst, "old version")
	writeFile(t, bak, "precious")

	e, err := New(src)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Replace(dst, bak), ErrAlreadyExists)

	for path, want := range map[string]string{
		src: "new version",
		dst: "old version",
		bak: "precious",
	} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	assert.Equal(t, src, e.OriginalPath())
}

// TestDelete tests file and empty-directory removal
func TestDelete(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "x")

	e, err := New(file)
	require.NoError(t, err)
	require.NoError(t, e.Delete())
	assert.False(t, e.Exists())

	assert.ErrorIs(t, e.Delete(), ErrNotFound)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	d, err := New(empty)
	require.NoError(t, err)
	require.NoError(t, d.Delete())
	assert.False(t, d.Exists())

	full := filepath.Join(dir, "full")
	require.NoError(t, os.Mkdir(full, 0755))
	writeFile(t, filepath.Join(full, "child.txt"), "x")
	fd, err := New(full)
	require.NoError(t, err)
	assert.ErrorIs(t, fd.Delete(), ErrNotSupported)
	assert.True(t, fd.Exists())
}

// TestDeleteTree tests recursive removal, read-only content included
func TestDeleteTree(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "locked"), 0755))
	writeFile(t, filepath.Join(root, "locked", "f.txt"), "x")
	require.NoError(t, os.Chmod(filepath.Join(root, "locked"), 0500))
	t.Cleanup(func() { os.Chmod(filepath.Join(root, "locked"), 0700) })

	d, err := New(root)
	require.NoError(t, err)
	require.NoError(t, d.DeleteTree())
	assert.False(t, d.Exists())

	assert.ErrorIs(t, d.DeleteTree(), ErrDirectoryNotFound)
}

// TestCreateDirectory tests single-level directory creation
func TestCreateDirectory(t *testing.T) {
	dir := t.TempDir()
	d, err := New(filepath.Join(dir, "made"))
	require.NoError(t, err)
	require.NoError(t, d.CreateDirectory())
	assert.True(t, d.IsDirectory())

	err = d.CreateDirectory()
	assert.ErrorIs(t, err, ErrDirectoryExists)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The parent must exist; this is not MkdirAll.
	deep, err := New(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.Error(t, deep.CreateDirectory())
}

// TestCreateSubdirectory tests one-level nested creation
func TestCreateSubdirectory(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)

	sub, err := d.CreateSubdirectory("child")
	require.NoError(t, err)
	assert.True(t, sub.IsDirectory())
	assert.Equal(t, "child", sub.Name())

	_, err = d.CreateSubdirectory("a/b")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = d.CreateSubdirectory("child")
	assert.ErrorIs(t, err, ErrDirectoryExists)
}

// TestCreateSubdirectoryTree tests chained creation and both slash
// forms
func TestCreateSubdirectoryTree(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)

	leaf, err := d.CreateSubdirectoryTree("a/b/c")
	require.NoError(t, err)
	assert.True(t, leaf.IsDirectory())
	assert.Equal(t, "c", leaf.Name())

	leaf2, err := d.CreateSubdirectoryTree(`a\b\d`)
	require.NoError(t, err)
	assert.True(t, leaf2.IsDirectory())

	_, err = d.CreateSubdirectoryTree("a/b/c")
	assert.ErrorIs(t, err, ErrDirectoryExists)
}

// TestCopyDirectory tests the recursive directory copy
func TestCopyDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "from")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "inner"), 0755))
	writeFile(t, filepath.Join(src, "top.txt"), "t")
	writeFile(t, filepath.Join(src, "inner", "leaf.txt"), "l")

	d, err := New(src)
	require.NoError(t, err)
	dst := filepath.Join(dir, "to")
	copied, err := d.CopyTo(dst, false)
	require.NoError(t, err)
	assert.True(t, copied.IsDirectory())

	leaf, err := New(filepath.Join(dst, "inner", "leaf.txt"))
	require.NoError(t, err)
	data, err := leaf.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, "l", string(data))

	// The source subtree survives.
	assert.True(t, d.IsDirectory())

	_, err = d.CopyTo(dst, false)
	assert.ErrorIs(t, err, ErrDirectoryExists)
}

// TestCopyDirectoryOverwrite tests that overwriting replaces the
// destination tree instead of merging into it
func TestCopyDirectoryOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "from")
	require.NoError(t, os.Mkdir(src, 0755))
	writeFile(t, filepath.Join(src, "keep.txt"), "k")

	dst := filepath.Join(dir, "to")
	require.NoError(t, os.Mkdir(dst, 0755))
	writeFile(t, filepath.Join(dst, "stale.txt"), "s")

	d, err := New(src)
	require.NoError(t, err)
	_, err = d.CopyTo(dst, true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "k", string(data))
	_, statErr := os.Stat(filepath.Join(dst, "stale.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

// TestMoveDirectory tests moving a whole directory subtree
func TestMoveDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "from")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "inner"), 0755))
	writeFile(t, filepath.Join(src, "inner", "f.txt"), "x")

	d, err := New(src)
	require.NoError(t, err)
	dst := filepath.Join(dir, "to")
	require.NoError(t, d.MoveTo(dst))
	assert.True(t, d.IsDirectory())

	moved, err := New(filepath.Join(dst, "inner", "f.txt"))
	require.NoError(t, err)
	assert.True(t, moved.IsFile())
}
