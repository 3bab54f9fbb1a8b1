package fsentry

import (
	"os"
	"time"
)

// ShareMode is the sharing granted to concurrent opens by OpenShared.
// Values match the Win32 FILE_SHARE_* constants; platforms without
// mandatory share locks treat them as advisory.
type ShareMode uint32

const (
	ShareNone   ShareMode = 0
	ShareRead   ShareMode = 0x1
	ShareWrite  ShareMode = 0x2
	ShareDelete ShareMode = 0x4
)

// SecurityDescriptor is a platform-neutral snapshot of an entry's
// access control. On Unix the Mode/UID/GID fields are populated; on
// Windows the SDDL string carries the descriptor. Fields outside the
// platform's vocabulary stay zero.
type SecurityDescriptor struct {
	Mode os.FileMode
	UID  int
	GID  int
	SDDL string
}

// Provider is the platform capability surface. Operations a platform
// cannot express return ErrNotSupported.
type Provider interface {
	Attributes(path string) (FileAttributes, error)
	SetAttributes(path string, attrs FileAttributes) error
	SetCreationTime(path string, t time.Time) error
	AccessControl(path string, mask SecurityInformation) (*SecurityDescriptor, error)
	SetAccessControl(path string, sd *SecurityDescriptor, mask SecurityInformation) error
	Encrypt(path string) error
	Decrypt(path string) error
	Compress(path string) error
	Uncompress(path string) error
	OpenShared(path string, flag int, share ShareMode) (*os.File, error)
}

var provider Provider = newPlatformProvider()

func currentProvider() Provider { return provider }

// SetProvider swaps the capability provider; tests use this to exercise
// capability paths without platform support. Passing nil restores the
// platform default.
func SetProvider(p Provider) {
	if p == nil {
		provider = newPlatformProvider()
		return
	}
	provider = p
}

// Attributes returns the platform attribute flags of the entry.
func (e *Entry) Attributes() (FileAttributes, error) {
	if !e.Exists() {
		return 0, wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().Attributes(e.FullPath())
}

// SetAttributes replaces the platform attribute flags of the entry.
func (e *Entry) SetAttributes(attrs FileAttributes) error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().SetAttributes(e.FullPath(), attrs)
}

// SetCreationTime updates the creation timestamp where the platform
// records one.
func (e *Entry) SetCreationTime(t time.Time) error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().SetCreationTime(e.FullPath(), t)
}

// AccessControl reads the parts of the entry's security selected by
// mask. A zero mask means DefaultSecurityInformation.
func (e *Entry) AccessControl(mask SecurityInformation) (*SecurityDescriptor, error) {
	if mask == 0 {
		mask = DefaultSecurityInformation
	}
	if !e.Exists() {
		return nil, wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().AccessControl(e.FullPath(), mask)
}

// SetAccessControl applies the parts of sd selected by mask. A zero
// mask means DefaultSecurityInformation.
func (e *Entry) SetAccessControl(sd *SecurityDescriptor, mask SecurityInformation) error {
	if mask == 0 {
		mask = DefaultSecurityInformation
	}
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().SetAccessControl(e.FullPath(), sd, mask)
}

// Encrypt enables at-rest encryption for the file where the platform
// supports it.
func (e *Entry) Encrypt() error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().Encrypt(e.FullPath())
}

// Decrypt reverses Encrypt.
func (e *Entry) Decrypt() error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().Decrypt(e.FullPath())
}

// Compress enables per-file filesystem compression where the platform
// supports it.
func (e *Entry) Compress() error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().Compress(e.FullPath())
}

// Uncompress reverses Compress.
func (e *Entry) Uncompress() error {
	if !e.Exists() {
		return wrapOSError(statError(e.path), e.path, false)
	}
	return currentProvider().Uncompress(e.FullPath())
}

// statError re-stats the path to recover the underlying OS error after
// an existence check failed.
func statError(path string) error {
	_, err := os.Stat(path)
	return err
}
