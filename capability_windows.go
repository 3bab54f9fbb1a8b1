//go:build windows

package fsentry

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// FSCTL_SET_COMPRESSION and the compression states, from winioctl.h.
const (
	fsctlSetCompression      = 0x9C040
	compressionFormatNone    = uint16(0)
	compressionFormatDefault = uint16(1)
)

var (
	advapi32    = windows.NewLazySystemDLL("advapi32.dll")
	procEncrypt = advapi32.NewProc("EncryptFileW")
	procDecrypt = advapi32.NewProc("DecryptFileW")
)

// windowsProvider implements the full capability surface over Win32.
type windowsProvider struct{}

func newPlatformProvider() Provider { return windowsProvider{} }

func (windowsProvider) Attributes(path string) (FileAttributes, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return 0, wrapOSError(err, path, false)
	}
	return FileAttributes(attrs), nil
}

func (windowsProvider) SetAttributes(path string, attrs FileAttributes) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	return wrapOSError(windows.SetFileAttributes(p, attrs.Value()), path, false)
}

func (windowsProvider) SetCreationTime(path string, t time.Time) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	h, err := windows.CreateFile(p, windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return wrapOSError(err, path, false)
	}
	defer windows.CloseHandle(h)

	ft := windows.NsecToFiletime(t.UnixNano())
	return wrapOSError(windows.SetFileTime(h, &ft, nil, nil), path, false)
}

func (windowsProvider) AccessControl(path string, mask SecurityInformation) (*SecurityDescriptor, error) {
	sd, err := windows.GetNamedSecurityInfo(path, windows.SE_FILE_OBJECT,
		windows.SECURITY_INFORMATION(mask))
	if err != nil {
		return nil, wrapOSError(err, path, false)
	}
	return &SecurityDescriptor{UID: -1, GID: -1, SDDL: sd.String()}, nil
}

func (windowsProvider) SetAccessControl(path string, sd *SecurityDescriptor, mask SecurityInformation) error {
	if sd == nil {
		return fmt.Errorf("nil security descriptor: %w", ErrInvalidPath)
	}
	parsed, err := windows.SecurityDescriptorFromString(sd.SDDL)
	if err != nil {
		return fmt.Errorf("sddl %q: %w", sd.SDDL, err)
	}

	var owner, group *windows.SID
	var dacl, sacl *windows.ACL
	if mask.Has(SecurityOwner) {
		owner, _, _ = parsed.Owner()
	}
	if mask.Has(SecurityGroup) {
		group, _, _ = parsed.Group()
	}
	if mask.Has(SecurityDacl) {
		dacl, _, _ = parsed.DACL()
	}
	if mask.Has(SecuritySacl) {
		sacl, _, _ = parsed.SACL()
	}
	err = windows.SetNamedSecurityInfo(path, windows.SE_FILE_OBJECT,
		windows.SECURITY_INFORMATION(mask), owner, group, dacl, sacl)
	return wrapOSError(err, path, false)
}

func (windowsProvider) Encrypt(path string) error {
	return callEncryptionProc(procEncrypt, path)
}

func (windowsProvider) Decrypt(path string) error {
	return callEncryptionProc(procDecrypt, path)
}

func callEncryptionProc(proc *windows.LazyProc, path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	ret, _, callErr := proc.Call(uintptr(unsafe.Pointer(p)))
	if ret == 0 {
		return wrapOSError(callErr, path, false)
	}
	return nil
}

func (windowsProvider) Compress(path string) error {
	return setCompressionState(path, compressionFormatDefault)
}

func (windowsProvider) Uncompress(path string) error {
	return setCompressionState(path, compressionFormatNone)
}

func setCompressionState(path string, state uint16) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	h, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return wrapOSError(err, path, false)
	}
	defer windows.CloseHandle(h)

	var returned uint32
	err = windows.DeviceIoControl(h, fsctlSetCompression,
		(*byte)(unsafe.Pointer(&state)), uint32(unsafe.Sizeof(state)),
		nil, 0, &returned, nil)
	return wrapOSError(err, path, false)
}

// OpenShared opens with an explicit Win32 share mode and wraps the
// handle in an *os.File owned by the caller.
func (windowsProvider) OpenShared(path string, flag int, share ShareMode) (*os.File, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}

	var access uint32
	switch {
	case flag&os.O_RDWR != 0:
		access = windows.GENERIC_READ | windows.GENERIC_WRITE
	case flag&os.O_WRONLY != 0:
		access = windows.GENERIC_WRITE
	default:
		access = windows.GENERIC_READ
	}
	if flag&os.O_APPEND != 0 {
		access &^= windows.GENERIC_WRITE
		access |= windows.FILE_APPEND_DATA
	}

	var creation uint32
	switch {
	case flag&(os.O_CREATE|os.O_EXCL) == os.O_CREATE|os.O_EXCL:
		creation = windows.CREATE_NEW
	case flag&(os.O_CREATE|os.O_TRUNC) == os.O_CREATE|os.O_TRUNC:
		creation = windows.CREATE_ALWAYS
	case flag&os.O_CREATE != 0:
		creation = windows.OPEN_ALWAYS
	case flag&os.O_TRUNC != 0:
		creation = windows.TRUNCATE_EXISTING
	default:
		creation = windows.OPEN_EXISTING
	}

	h, err := windows.CreateFile(p, access, uint32(share), nil, creation,
		windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, wrapOSError(err, path, false)
	}
	return os.NewFile(uintptr(h), path), nil
}
