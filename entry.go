package fsentry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Entry is a handle on one filesystem location, file or directory,
// possibly nonexistent. It stores only the caller's path string; every
// property re-queries the live filesystem, so an Entry is never stale
// and never holds an OS resource.
type Entry struct {
	path string
}

// New returns an Entry for path. The path is kept verbatim, relative or
// absolute. Paths containing any of * ? " < > | are rejected, as are
// empty paths and paths with a colon anywhere but the drive-letter
// position, with ErrInvalidPath.
func New(path string) (*Entry, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return &Entry{path: path}, nil
}

// newEntry builds a derived handle from a path this package produced
// itself (directory listings, canonical joins); such paths skip
// caller-input validation.
func newEntry(path string) *Entry {
	return &Entry{path: path}
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", ErrInvalidPath)
	}
	if i := strings.IndexAny(path, `*?"<>|`); i >= 0 {
		return fmt.Errorf("%q: forbidden character %q: %w", path, path[i], ErrInvalidPath)
	}
	if i := strings.LastIndexByte(path, ':'); i >= 0 && i != 1 {
		return fmt.Errorf("%q: colon outside drive position: %w", path, ErrInvalidPath)
	}
	return nil
}

// OriginalPath returns the path exactly as given at construction, or as
// last updated by MoveTo/Rename.
func (e *Entry) OriginalPath() string {
	return e.path
}

// FullPath returns the fully qualified path: absolute, cleaned, and with
// symlinks resolved when the target exists. Recomputed on every call.
func (e *Entry) FullPath() string {
	abs, err := filepath.Abs(e.path)
	if err != nil {
		return filepath.Clean(e.path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// String returns the fully qualified path.
func (e *Entry) String() string {
	return e.FullPath()
}

// Exists reports whether the entry currently exists on disk.
func (e *Entry) Exists() bool {
	_, err := os.Stat(e.path)
	return err == nil
}

// IsFile reports whether the entry is an existing regular file.
func (e *Entry) IsFile() bool {
	info, err := os.Stat(e.path)
	return err == nil && info.Mode().IsRegular()
}

// IsDirectory reports whether the entry is an existing directory.
func (e *Entry) IsDirectory() bool {
	info, err := os.Stat(e.path)
	return err == nil && info.IsDir()
}

// Name returns the last element of the fully qualified path.
func (e *Entry) Name() string {
	return filepath.Base(e.FullPath())
}

// BaseName returns Name without its extension.
func (e *Entry) BaseName() string {
	name := e.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Extension returns the extension of the fully qualified path, from the
// final dot inclusive, or "" when there is none.
func (e *Entry) Extension() string {
	return filepath.Ext(e.FullPath())
}

// DirectoryName returns the fully qualified path of the parent
// directory.
func (e *Entry) DirectoryName() string {
	return filepath.Dir(e.FullPath())
}

// Directory returns a handle on the parent directory.
func (e *Entry) Directory() *Entry {
	return newEntry(e.DirectoryName())
}

// Root returns the root portion of the fully qualified path: the volume
// name plus separator on Windows, "/" elsewhere.
func (e *Entry) Root() string {
	full := e.FullPath()
	if vol := filepath.VolumeName(full); vol != "" {
		return vol + string(os.PathSeparator)
	}
	return string(os.PathSeparator)
}

// Parent returns the parent of an existing directory, or "" when the
// directory is the root. ErrNotSupported when the entry is not a
// directory.
func (e *Entry) Parent() (string, error) {
	if !e.IsDirectory() {
		return "", fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	dir := filepath.Dir(e.FullPath())
	if dir == e.Root() {
		return "", nil
	}
	return dir, nil
}

// Join returns a handle for elem joined under an existing directory.
// ErrNotSupported when the receiver is not a directory.
func (e *Entry) Join(elem ...string) (*Entry, error) {
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	joined := filepath.Join(append([]string{e.FullPath()}, elem...)...)
	if err := validatePath(joined); err != nil {
		return nil, err
	}
	return newEntry(joined), nil
}

// SameAs reports whether e and other resolve to the same underlying
// filesystem object, not merely equal path strings. Both sides must
// exist; a missing side yields an ErrNotFound-kind error.
func (e *Entry) SameAs(other *Entry) (bool, error) {
	fi, err := os.Stat(e.FullPath())
	if err != nil {
		return false, wrapOSError(err, e.path, false)
	}
	oi, err := os.Stat(other.FullPath())
	if err != nil {
		return false, wrapOSError(err, other.path, false)
	}
	return os.SameFile(fi, oi), nil
}

// CompareWith compares content. For files it is a byte-wise comparison.
// For directories it compares the files common to both top levels and
// reports true only when at least one common file exists and all common
// files match; a directory compared against a file is false. Missing
// entries yield the directory-flavored not-found kind; errors.Is
// matches it as ErrNotFound either way.
func (e *Entry) CompareWith(other *Entry) (bool, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return false, wrapOSError(err, e.path, true)
	}
	otherInfo, err := os.Stat(other.FullPath())
	if err != nil {
		return false, wrapOSError(err, other.OriginalPath(), true)
	}

	switch {
	case info.Mode().IsRegular():
		if !otherInfo.Mode().IsRegular() {
			return false, nil
		}
		return equalFileContent(e.path, other.FullPath())
	case info.IsDir():
		if !otherInfo.IsDir() {
			return false, nil
		}
		return equalCommonFiles(e.FullPath(), other.FullPath())
	default:
		return false, fmt.Errorf("%q is not a file or directory: %w", e.path, ErrNotSupported)
	}
}

func equalFileContent(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, wrapOSError(err, a, false)
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, wrapOSError(err, b, false)
	}
	if ai.Size() != bi.Size() {
		return false, nil
	}

	af, err := os.Open(a)
	if err != nil {
		return false, wrapOSError(err, a, false)
	}
	defer af.Close()
	bf, err := os.Open(b)
	if err != nil {
		return false, wrapOSError(err, b, false)
	}
	defer bf.Close()

	abuf := make([]byte, 64*1024)
	bbuf := make([]byte, 64*1024)
	for {
		an, aerr := io.ReadFull(af, abuf)
		bn, berr := io.ReadFull(bf, bbuf)
		if an != bn || !bytes.Equal(abuf[:an], bbuf[:bn]) {
			return false, nil
		}
		if aerr == io.EOF || aerr == io.ErrUnexpectedEOF {
			return berr == io.EOF || berr == io.ErrUnexpectedEOF, nil
		}
		if aerr != nil {
			return false, aerr
		}
		if berr != nil {
			return false, berr
		}
	}
}

func equalCommonFiles(a, b string) (bool, error) {
	aEntries, err := os.ReadDir(a)
	if err != nil {
		return false, wrapOSError(err, a, true)
	}
	bNames := map[string]bool{}
	bEntries, err := os.ReadDir(b)
	if err != nil {
		return false, wrapOSError(err, b, true)
	}
	for _, be := range bEntries {
		if be.Type().IsRegular() {
			bNames[be.Name()] = true
		}
	}

	common := 0
	for _, ae := range aEntries {
		if !ae.Type().IsRegular() || !bNames[ae.Name()] {
			continue
		}
		common++
		same, err := equalFileContent(filepath.Join(a, ae.Name()), filepath.Join(b, ae.Name()))
		if err != nil {
			return false, err
		}
		if !same {
			return false, nil
		}
	}
	if common == 0 {
		log.Debug("directory comparison found no common files",
			zap.String("a", a), zap.String("b", b))
		return false, nil
	}
	return true, nil
}
