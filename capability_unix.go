//go:build linux || darwin

package fsentry

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// unixProvider implements the capability surface over POSIX calls.
// Attribute flags, encryption, and per-file compression have no POSIX
// equivalent and report ErrNotSupported; access control maps to the
// owner, group, and permission bits.
type unixProvider struct{}

func newPlatformProvider() Provider { return unixProvider{} }

func (unixProvider) Attributes(path string) (FileAttributes, error) {
	return 0, fmt.Errorf("file attributes: %w", ErrNotSupported)
}

func (unixProvider) SetAttributes(path string, attrs FileAttributes) error {
	return fmt.Errorf("file attributes: %w", ErrNotSupported)
}

func (unixProvider) SetCreationTime(path string, t time.Time) error {
	return fmt.Errorf("creation time: %w", ErrNotSupported)
}

func (unixProvider) AccessControl(path string, mask SecurityInformation) (*SecurityDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapOSError(err, path, false)
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("access control: %w", ErrNotSupported)
	}

	sd := &SecurityDescriptor{UID: -1, GID: -1}
	if mask.Has(SecurityOwner) {
		sd.UID = int(st.Uid)
	}
	if mask.Has(SecurityGroup) {
		sd.GID = int(st.Gid)
	}
	if mask.Has(SecurityDacl) {
		sd.Mode = info.Mode().Perm()
	}
	return sd, nil
}

func (unixProvider) SetAccessControl(path string, sd *SecurityDescriptor, mask SecurityInformation) error {
	if sd == nil {
		return fmt.Errorf("nil security descriptor: %w", ErrInvalidPath)
	}
	if mask.Has(SecurityDacl) {
		if err := os.Chmod(path, sd.Mode); err != nil {
			return wrapOSError(err, path, false)
		}
	}
	uid, gid := -1, -1
	if mask.Has(SecurityOwner) {
		uid = sd.UID
	}
	if mask.Has(SecurityGroup) {
		gid = sd.GID
	}
	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return wrapOSError(err, path, false)
		}
	}
	return nil
}

func (unixProvider) Encrypt(path string) error {
	return fmt.Errorf("file encryption: %w", ErrNotSupported)
}

func (unixProvider) Decrypt(path string) error {
	return fmt.Errorf("file encryption: %w", ErrNotSupported)
}

func (unixProvider) Compress(path string) error {
	return fmt.Errorf("file compression: %w", ErrNotSupported)
}

func (unixProvider) Uncompress(path string) error {
	return fmt.Errorf("file compression: %w", ErrNotSupported)
}

// OpenShared degrades to a plain open; POSIX has no mandatory share
// locks, so every share mode is already granted.
func (unixProvider) OpenShared(path string, flag int, share ShareMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, wrapOSError(err, path, false)
	}
	return f, nil
}
