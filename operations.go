package fsentry

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// CopyTo copies the entry to destination and returns a handle on the
// copy: a byte copy for files, a recursive copy for directories. An
// existing destination is an already-exists condition unless overwrite
// is set; a destination that is the source itself is always refused,
// overwrite included, since truncating it would destroy the data being
// read. Missing sources report the directory-flavored not-found kind;
// errors.Is matches it as ErrNotFound either way.
func (e *Entry) CopyTo(destination string, overwrite bool) (*Entry, error) {
	if err := validatePath(destination); err != nil {
		return nil, err
	}
	info, err := os.Stat(e.path)
	if err != nil {
		return nil, wrapOSError(err, e.path, true)
	}
	if destInfo, err := os.Stat(destination); err == nil {
		if os.SameFile(info, destInfo) {
			return nil, fmt.Errorf("%q and %q are the same entry: %w", e.path, destination, ErrNotSupported)
		}
		if !overwrite {
			if info.IsDir() {
				return nil, fmt.Errorf("%q: %w", destination, ErrDirectoryExists)
			}
			return nil, fmt.Errorf("%q: %w", destination, ErrAlreadyExists)
		}
	}
	if info.IsDir() {
		// Overwriting replaces the whole destination tree; a merge
		// would leave stale children the source does not have.
		if err := os.RemoveAll(destination); err != nil {
			return nil, wrapOSError(err, destination, true)
		}
		if err := copyDirContents(e.FullPath(), destination); err != nil {
			return nil, err
		}
	} else if err := copyFileContents(e.FullPath(), destination); err != nil {
		return nil, err
	}
	log.Debug("copied entry",
		zap.String("source", e.path), zap.String("destination", destination))
	return newEntry(destination), nil
}

// CopyToDirectory copies the file into directory, keeping its name.
func (e *Entry) CopyToDirectory(directory string, overwrite bool) (*Entry, error) {
	if err := validatePath(directory); err != nil {
		return nil, err
	}
	info, err := os.Stat(directory)
	if err != nil {
		return nil, wrapOSError(err, directory, true)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory: %w", directory, ErrDirectoryNotFound)
	}
	// Copying into the directory the entry already lives in is a no-op
	// that hands back a fresh handle.
	if newEntry(directory).FullPath() == e.DirectoryName() {
		return newEntry(e.FullPath()), nil
	}
	return e.CopyTo(filepath.Join(directory, e.Name()), overwrite)
}

// MoveTo moves the file or directory to destination and repoints the
// handle at the new location. An existing destination is a collision,
// reported with the directory-flavored already-exists kind.
func (e *Entry) MoveTo(destination string) error {
	if err := validatePath(destination); err != nil {
		return err
	}
	if !e.Exists() {
		return fmt.Errorf("%q: %w", e.path, ErrNotFound)
	}
	if _, err := os.Stat(destination); err == nil {
		return fmt.Errorf("%q: %w", destination, ErrDirectoryExists)
	}
	if err := moveEntry(e.FullPath(), destination); err != nil {
		return err
	}
	log.Debug("moved entry",
		zap.String("source", e.path), zap.String("destination", destination))
	e.path = destination
	return nil
}

// MoveToDirectory moves the entry into directory, keeping its name, and
// repoints the handle.
func (e *Entry) MoveToDirectory(directory string) error {
	if err := validatePath(directory); err != nil {
		return err
	}
	info, err := os.Stat(directory)
	if err != nil {
		return wrapOSError(err, directory, true)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory: %w", directory, ErrDirectoryNotFound)
	}
	// Already there; nothing to move.
	if newEntry(directory).FullPath() == e.DirectoryName() {
		return nil
	}
	return e.MoveTo(filepath.Join(directory, e.Name()))
}

// Rename gives the entry a new bare name within its current directory
// and repoints the handle. Names containing a path separator are an
// ErrNotSupported condition; full relocations go through MoveTo.
func (e *Entry) Rename(name string) error {
	if err := validatePath(name); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: name must not contain a separator: %w", name, ErrNotSupported)
	}
	// Renaming to the current name is a no-op.
	if name == e.Name() {
		return nil
	}
	return e.MoveTo(filepath.Join(e.DirectoryName(), name))
}

// Replace overwrites destination with this file, preserving the old
// destination at backup when backup is non-empty, and repoints the
// handle at destination. Both the source and the destination must
// already exist, and the backup path must not.
func (e *Entry) Replace(destination, backup string) error {
	if err := validatePath(destination); err != nil {
		return err
	}
	if backup != "" {
		if err := validatePath(backup); err != nil {
			return err
		}
	}
	if !e.IsFile() {
		return fmt.Errorf("%q: %w", e.path, ErrNotFound)
	}
	if _, err := os.Stat(destination); err != nil {
		return wrapOSError(err, destination, false)
	}
	if backup != "" {
		// An occupied backup path is never clobbered.
		if _, err := os.Stat(backup); err == nil {
			return fmt.Errorf("%q: %w", backup, ErrAlreadyExists)
		}
		if err := moveEntry(destination, backup); err != nil {
			return err
		}
	} else if err := os.Remove(destination); err != nil {
		return wrapOSError(err, destination, false)
	}
	if err := moveEntry(e.FullPath(), destination); err != nil {
		return err
	}
	e.path = destination
	return nil
}

// Delete removes a file, or an empty directory. A non-empty directory
// is an ErrNotSupported condition; use DeleteTree for those.
func (e *Entry) Delete() error {
	info, err := os.Stat(e.path)
	if err != nil {
		return wrapOSError(err, e.path, false)
	}
	if info.IsDir() {
		children, err := os.ReadDir(e.path)
		if err != nil {
			return wrapOSError(err, e.path, true)
		}
		if len(children) > 0 {
			return fmt.Errorf("%q: directory not empty: %w", e.path, ErrNotSupported)
		}
	}
	return wrapOSError(os.Remove(e.path), e.path, info.IsDir())
}

// DeleteTree removes the directory and everything under it. On a
// permission failure the subtree is re-permissioned writable once and
// the removal retried.
func (e *Entry) DeleteTree() error {
	if !e.IsDirectory() {
		return fmt.Errorf("%q: %w", e.path, ErrDirectoryNotFound)
	}
	root := e.FullPath()
	err := os.RemoveAll(root)
	if err == nil {
		return nil
	}
	if !isPermission(err) {
		return wrapOSError(err, root, true)
	}

	log.Debug("delete tree: re-permissioning subtree after denial",
		zap.String("path", root))
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		mode := os.FileMode(0600)
		if d.IsDir() {
			mode = 0700
		}
		_ = os.Chmod(path, mode)
		return nil
	})
	if walkErr != nil {
		return wrapOSError(walkErr, root, true)
	}
	return wrapOSError(os.RemoveAll(root), root, true)
}

// CreateDirectory creates the directory at the entry's path. An
// existing path is an ErrDirectoryExists condition.
func (e *Entry) CreateDirectory() error {
	return wrapOSError(os.Mkdir(e.path, 0755), e.path, true)
}

// CreateSubdirectory creates one directly nested subdirectory with the
// given bare name and returns a handle on it.
func (e *Entry) CreateSubdirectory(name string) (*Entry, error) {
	if err := validatePath(name); err != nil {
		return nil, err
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%q: name must not contain a separator: %w", name, ErrInvalidPath)
	}
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q: %w", e.path, ErrDirectoryNotFound)
	}
	sub := filepath.Join(e.FullPath(), name)
	if err := os.Mkdir(sub, 0755); err != nil {
		return nil, wrapOSError(err, sub, true)
	}
	return newEntry(sub), nil
}

// CreateSubdirectoryTree creates a nested chain of subdirectories.
// relative may use either slash form; intermediate directories that
// already exist are fine, a fully existing leaf is an
// ErrDirectoryExists condition.
func (e *Entry) CreateSubdirectoryTree(relative string) (*Entry, error) {
	if err := validatePath(relative); err != nil {
		return nil, err
	}
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q: %w", e.path, ErrDirectoryNotFound)
	}
	normalized := strings.ReplaceAll(relative, "\\", "/")
	leaf := filepath.Join(e.FullPath(), filepath.FromSlash(normalized))
	if _, err := os.Stat(leaf); err == nil {
		return nil, fmt.Errorf("%q: %w", leaf, ErrDirectoryExists)
	}
	if err := os.MkdirAll(leaf, 0755); err != nil {
		return nil, wrapOSError(err, leaf, true)
	}
	return newEntry(leaf), nil
}

// copyFileContents copies src to dst, truncating any existing dst and
// carrying over the source permission bits.
func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return wrapOSError(err, src, false)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return wrapOSError(err, src, false)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return wrapOSError(err, dst, false)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return wrapOSError(err, dst, false)
	}
	return nil
}

// moveEntry renames src to dst, falling back to copy-and-remove when
// the rename crosses a filesystem boundary.
func moveEntry(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if isPermission(err) {
		return wrapOSError(err, src, false)
	}

	info, err := os.Stat(src)
	if err != nil {
		return wrapOSError(err, src, false)
	}
	if info.IsDir() {
		if err := copyDirContents(src, dst); err != nil {
			return err
		}
		return wrapOSError(os.RemoveAll(src), src, true)
	}
	if err := copyFileContents(src, dst); err != nil {
		return err
	}
	return wrapOSError(os.Remove(src), src, false)
}

func copyDirContents(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return wrapOSError(err, dst, true)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return wrapOSError(err, src, true)
	}
	for _, de := range entries {
		from := filepath.Join(src, de.Name())
		to := filepath.Join(dst, de.Name())
		if de.IsDir() {
			if err := copyDirContents(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFileContents(from, to); err != nil {
			return err
		}
	}
	return nil
}
