//go:build !linux && !darwin && !windows

package fsentry

import (
	"fmt"
	"os"
	"time"
)

// stubProvider serves platforms with no capability support; every
// capability reports ErrNotSupported and OpenShared degrades to a plain
// open.
type stubProvider struct{}

func newPlatformProvider() Provider { return stubProvider{} }

func (stubProvider) Attributes(path string) (FileAttributes, error) {
	return 0, fmt.Errorf("file attributes: %w", ErrNotSupported)
}

func (stubProvider) SetAttributes(path string, attrs FileAttributes) error {
	return fmt.Errorf("file attributes: %w", ErrNotSupported)
}

func (stubProvider) SetCreationTime(path string, t time.Time) error {
	return fmt.Errorf("creation time: %w", ErrNotSupported)
}

func (stubProvider) AccessControl(path string, mask SecurityInformation) (*SecurityDescriptor, error) {
	return nil, fmt.Errorf("access control: %w", ErrNotSupported)
}

func (stubProvider) SetAccessControl(path string, sd *SecurityDescriptor, mask SecurityInformation) error {
	return fmt.Errorf("access control: %w", ErrNotSupported)
}

func (stubProvider) Encrypt(path string) error {
	return fmt.Errorf("file encryption: %w", ErrNotSupported)
}

func (stubProvider) Decrypt(path string) error {
	return fmt.Errorf("file encryption: %w", ErrNotSupported)
}

func (stubProvider) Compress(path string) error {
	return fmt.Errorf("file compression: %w", ErrNotSupported)
}

func (stubProvider) Uncompress(path string) error {
	return fmt.Errorf("file compression: %w", ErrNotSupported)
}

func (stubProvider) OpenShared(path string, flag int, share ShareMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, wrapOSError(err, path, false)
	}
	return f, nil
}
