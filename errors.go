package fsentry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Error kinds. The directory-flavored kinds wrap their file-flavored
// counterparts, so errors.Is(err, ErrNotFound) matches a directory
// not-found and errors.Is(err, ErrAlreadyExists) matches a directory
// collision. Several operations report missing plain files with the
// directory flavor; callers should branch on the base kinds.
var (
	// ErrInvalidPath reports a malformed path string, either at
	// construction or as a destination argument.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotFound reports a missing file.
	ErrNotFound = errors.New("not found")

	// ErrDirectoryNotFound reports a missing directory. Is-a ErrNotFound.
	ErrDirectoryNotFound = fmt.Errorf("directory %w", ErrNotFound)

	// ErrAlreadyExists reports a destination file collision.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDirectoryExists reports a destination directory collision.
	// Is-a ErrAlreadyExists.
	ErrDirectoryExists = fmt.Errorf("directory %w", ErrAlreadyExists)

	// ErrNotSupported reports an operation inapplicable to the entry
	// kind, the platform, or a missing platform capability.
	ErrNotSupported = errors.New("operation not supported")

	// ErrUnauthorized reports permission denial or a read-only target.
	ErrUnauthorized = errors.New("access denied")
)

// wrapOSError translates a raw OS error into the package taxonomy,
// keeping the original in the chain. dirFlavor selects the
// directory-flavored not-found/exists kinds.
func wrapOSError(err error, path string, dirFlavor bool) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if dirFlavor {
			return fmt.Errorf("%q: %w: %w", path, ErrDirectoryNotFound, err)
		}
		return fmt.Errorf("%q: %w: %w", path, ErrNotFound, err)
	case errors.Is(err, fs.ErrExist):
		if dirFlavor {
			return fmt.Errorf("%q: %w: %w", path, ErrDirectoryExists, err)
		}
		return fmt.Errorf("%q: %w: %w", path, ErrAlreadyExists, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%q: %w: %w", path, ErrUnauthorized, err)
	default:
		return err
	}
}

// isPermission reports whether err is a permission failure at any level
// of wrapping.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, ErrUnauthorized) || os.IsPermission(err)
}
