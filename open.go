package fsentry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// guardOpen enforces the open-family precondition: the path must be a
// regular file or not exist at all. Opening a directory is an
// ErrUnauthorized condition.
func (e *Entry) guardOpen() error {
	info, err := os.Stat(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return wrapOSError(err, e.path, false)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%q is not a regular file: %w", e.path, ErrUnauthorized)
	}
	return nil
}

// Create creates the file and returns the open handle. The entry must
// be absent; an existing file or directory is an ErrAlreadyExists
// condition. The caller owns the handle and must close it.
func (e *Entry) Create() (*os.File, error) {
	if e.Exists() {
		return nil, fmt.Errorf("%q: %w", e.path, ErrAlreadyExists)
	}
	f, err := os.OpenFile(e.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, wrapOSError(err, e.path, false)
	}
	return f, nil
}

// CreateText creates the file for writing text. It is Create under the
// name the text/binary API split uses.
func (e *Entry) CreateText() (*os.File, error) {
	return e.Create()
}

// guardOpenFile is the stricter precondition of the named open
// helpers: the path must already be a regular file. Anything else,
// a missing path included, is an ErrUnauthorized condition.
func (e *Entry) guardOpenFile() error {
	if !e.IsFile() {
		return fmt.Errorf("%q is not a file: %w", e.path, ErrUnauthorized)
	}
	return nil
}

// Open opens the file with the given flag (os.O_RDONLY and friends).
// The file-or-absent guard applies before the OS sees the flag.
func (e *Entry) Open(flag int) (*os.File, error) {
	if err := e.guardOpen(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(e.path, flag, 0644)
	if err != nil {
		return nil, wrapOSError(err, e.path, false)
	}
	return f, nil
}

// OpenRead opens the existing file read-only.
func (e *Entry) OpenRead() (*os.File, error) {
	if err := e.guardOpenFile(); err != nil {
		return nil, err
	}
	return e.Open(os.O_RDONLY)
}

// OpenWrite opens the existing file for appending.
func (e *Entry) OpenWrite() (*os.File, error) {
	if err := e.guardOpenFile(); err != nil {
		return nil, err
	}
	return e.Open(os.O_WRONLY | os.O_APPEND)
}

// OpenText opens the existing file for reading and writing without
// truncation.
func (e *Entry) OpenText() (*os.File, error) {
	if err := e.guardOpenFile(); err != nil {
		return nil, err
	}
	return e.Open(os.O_RDWR)
}

// AppendText opens the existing file for reading and appending.
func (e *Entry) AppendText() (*os.File, error) {
	if err := e.guardOpenFile(); err != nil {
		return nil, err
	}
	return e.Open(os.O_RDWR | os.O_APPEND)
}

// OpenShared opens the file with an explicit sharing mode. Sharing
// modes are advisory on platforms without mandatory share locks; there
// the call degrades to a plain open honoring flag.
func (e *Entry) OpenShared(flag int, share ShareMode) (*os.File, error) {
	if err := e.guardOpen(); err != nil {
		return nil, err
	}
	return currentProvider().OpenShared(e.path, flag, share)
}
