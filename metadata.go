package fsentry

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Length returns the size of the file in bytes. Directories never fall
// back to an aggregate size here; they report the not-found kind, and
// callers wanting a directory size use DirectoryLength or TotalSize.
func (e *Entry) Length() (int64, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return 0, wrapOSError(err, e.path, false)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%q is a directory: %w", e.path, ErrNotFound)
	}
	return info.Size(), nil
}

// DirectoryLength sums the sizes of the files under the directory whose
// names match pattern.
func (e *Entry) DirectoryLength(pattern string, option DirectorySearchOption) (int64, error) {
	var total int64
	err := e.WalkFiles(pattern, option, func(child *Entry) error {
		n, err := child.Length()
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Size returns the file length for files and the top-level content size
// for directories.
func (e *Entry) Size() (int64, error) {
	if e.IsDirectory() {
		return e.DirectoryLength("*", TopDirectoryOnly)
	}
	return e.Length()
}

// TotalSize sums every file in the subtree, walked in parallel.
// Unreadable entries are skipped. For a file it equals Length.
func (e *Entry) TotalSize() (int64, error) {
	if !e.IsDirectory() {
		return e.Length()
	}
	root := e.FullPath()

	var total atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("total size: skipping unreadable entry",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total.Add(info.Size())
			}
		}
		return nil
	})
	if err != nil {
		return 0, wrapOSError(err, root, true)
	}
	return total.Load(), nil
}

// HumanSize renders TotalSize with a binary unit suffix.
func (e *Entry) HumanSize() (string, error) {
	n, err := e.TotalSize()
	if err != nil {
		return "", err
	}
	return formatBytes(n), nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// CreationTime returns the creation timestamp where the platform records
// one, otherwise the closest timestamp the platform offers.
func (e *Entry) CreationTime() (time.Time, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}, wrapOSError(err, e.path, false)
	}
	return creationTime(info), nil
}

// LastWriteTime returns the modification timestamp.
func (e *Entry) LastWriteTime() (time.Time, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}, wrapOSError(err, e.path, false)
	}
	return info.ModTime(), nil
}

// LastAccessTime returns the access timestamp.
func (e *Entry) LastAccessTime() (time.Time, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}, wrapOSError(err, e.path, false)
	}
	return accessTime(info), nil
}

// SetLastWriteTime updates the modification timestamp, keeping the
// current access timestamp.
func (e *Entry) SetLastWriteTime(t time.Time) error {
	atime, err := e.LastAccessTime()
	if err != nil {
		return err
	}
	return wrapOSError(os.Chtimes(e.path, atime, t), e.path, false)
}

// SetLastAccessTime updates the access timestamp, keeping the current
// modification timestamp.
func (e *Entry) SetLastAccessTime(t time.Time) error {
	mtime, err := e.LastWriteTime()
	if err != nil {
		return err
	}
	return wrapOSError(os.Chtimes(e.path, t, mtime), e.path, false)
}

// IsReadOnly reports whether the entry is readable but not writable by
// its owner.
func (e *Entry) IsReadOnly() (bool, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return false, wrapOSError(err, e.path, false)
	}
	perm := info.Mode().Perm()
	return perm&0200 == 0 && perm&0400 != 0, nil
}

// SetReadOnly toggles the owner write permission.
func (e *Entry) SetReadOnly(readOnly bool) error {
	info, err := os.Stat(e.path)
	if err != nil {
		return wrapOSError(err, e.path, false)
	}
	perm := info.Mode().Perm()
	if readOnly {
		perm &^= 0222
	} else {
		perm |= 0200
	}
	return wrapOSError(os.Chmod(e.path, perm), e.path, false)
}

// MimeType detects the content type of the file by sniffing its bytes.
func (e *Entry) MimeType() (string, error) {
	if !e.IsFile() {
		return "", fmt.Errorf("%q: %w", e.path, ErrNotFound)
	}
	mt, err := mimetype.DetectFile(e.FullPath())
	if err != nil {
		return "", wrapOSError(err, e.path, false)
	}
	return mt.String(), nil
}

// IsText reports whether the file's detected content type is textual.
func (e *Entry) IsText() (bool, error) {
	mt, err := e.MimeType()
	if err != nil {
		return false, err
	}
	if strings.HasPrefix(mt, "text/") {
		return true, nil
	}
	switch {
	case strings.Contains(mt, "json"),
		strings.Contains(mt, "xml"),
		strings.Contains(mt, "yaml"),
		strings.Contains(mt, "javascript"):
		return true, nil
	}
	return false, nil
}

// IsBinary is the complement of IsText.
func (e *Entry) IsBinary() (bool, error) {
	text, err := e.IsText()
	if err != nil {
		return false, err
	}
	return !text, nil
}
