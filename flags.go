package fsentry

import (
	"fmt"
	"strings"
)

// flagBit is one named bit in a flag domain. Registries are explicit
// ordered tables; rendering walks them in declaration order.
type flagBit[T ~uint32] struct {
	name string
	bit  T
}

// renderFlags joins the names of every registered bit set in v with
// " | ". A value with no registered bit set (zero included) is an
// ErrNotSupported condition, not an empty string.
func renderFlags[T ~uint32](v T, domain string, registry []flagBit[T]) (string, error) {
	var names []string
	for _, f := range registry {
		if v&f.bit != 0 {
			names = append(names, domain+"."+f.name)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%s(%#x): no named flags set: %w", domain, uint32(v), ErrNotSupported)
	}
	return strings.Join(names, " | "), nil
}

// FileAttributes is a bitwise combination of file attribute flags.
// Values match the Win32 FILE_ATTRIBUTE_* constants.
type FileAttributes uint32

const (
	AttrReadOnly          FileAttributes = 0x1
	AttrHidden            FileAttributes = 0x2
	AttrSystem            FileAttributes = 0x4
	AttrDirectory         FileAttributes = 0x10
	AttrArchive           FileAttributes = 0x20
	AttrDevice            FileAttributes = 0x40
	AttrNormal            FileAttributes = 0x80
	AttrTemporary         FileAttributes = 0x100
	AttrSparseFile        FileAttributes = 0x200
	AttrReparsePoint      FileAttributes = 0x400
	AttrCompressed        FileAttributes = 0x800
	AttrOffline           FileAttributes = 0x1000
	AttrNotContentIndexed FileAttributes = 0x2000
	AttrEncrypted         FileAttributes = 0x4000
	AttrVirtual           FileAttributes = 0x10000
)

var fileAttributeRegistry = []flagBit[FileAttributes]{
	{"ReadOnly", AttrReadOnly},
	{"Hidden", AttrHidden},
	{"System", AttrSystem},
	{"Directory", AttrDirectory},
	{"Archive", AttrArchive},
	{"Device", AttrDevice},
	{"Normal", AttrNormal},
	{"Temporary", AttrTemporary},
	{"SparseFile", AttrSparseFile},
	{"ReparsePoint", AttrReparsePoint},
	{"Compressed", AttrCompressed},
	{"Offline", AttrOffline},
	{"NotContentIndexed", AttrNotContentIndexed},
	{"Encrypted", AttrEncrypted},
	{"Virtual", AttrVirtual},
}

// Or returns the union of a and other.
func (a FileAttributes) Or(other FileAttributes) FileAttributes { return a | other }

// And returns the intersection of a and other.
func (a FileAttributes) And(other FileAttributes) FileAttributes { return a & other }

// Xor returns the symmetric difference of a and other.
func (a FileAttributes) Xor(other FileAttributes) FileAttributes { return a ^ other }

// Not returns the bitwise complement of a.
func (a FileAttributes) Not() FileAttributes { return ^a }

// Minus returns a with other's bits cleared.
func (a FileAttributes) Minus(other FileAttributes) FileAttributes { return a &^ other }

// Has reports whether every bit of other is set in a.
func (a FileAttributes) Has(other FileAttributes) bool { return a&other == other }

// Value returns the raw bitmask.
func (a FileAttributes) Value() uint32 { return uint32(a) }

// DisplayString renders the set flags in registry order, joined by
// " | ". Returns ErrNotSupported when no registered flag matches.
func (a FileAttributes) DisplayString() (string, error) {
	return renderFlags(a, "FileAttributes", fileAttributeRegistry)
}

// String implements fmt.Stringer; unmatched values render empty.
func (a FileAttributes) String() string {
	s, err := a.DisplayString()
	if err != nil {
		return ""
	}
	return s
}

// SecurityInformation selects which parts of a security descriptor an
// access-control operation touches. Values match the Win32
// *_SECURITY_INFORMATION constants.
type SecurityInformation uint32

const (
	SecurityOwner           SecurityInformation = 0x1
	SecurityGroup           SecurityInformation = 0x2
	SecurityDacl            SecurityInformation = 0x4
	SecuritySacl            SecurityInformation = 0x8
	SecurityLabel           SecurityInformation = 0x10
	SecurityAttribute       SecurityInformation = 0x20
	SecurityScope           SecurityInformation = 0x40
	SecurityBackup          SecurityInformation = 0x10000
	SecurityUnprotectedSacl SecurityInformation = 0x10000000
	SecurityUnprotectedDacl SecurityInformation = 0x20000000
	SecurityProtectedSacl   SecurityInformation = 0x40000000
	SecurityProtectedDacl   SecurityInformation = 0x80000000
)

// DefaultSecurityInformation is the mask access-control operations use
// when the caller passes zero.
const DefaultSecurityInformation = SecurityOwner | SecurityGroup | SecurityDacl

var securityInformationRegistry = []flagBit[SecurityInformation]{
	{"Owner", SecurityOwner},
	{"Group", SecurityGroup},
	{"Dacl", SecurityDacl},
	{"Sacl", SecuritySacl},
	{"Label", SecurityLabel},
	{"Attribute", SecurityAttribute},
	{"Scope", SecurityScope},
	{"Backup", SecurityBackup},
	{"UnprotectedSacl", SecurityUnprotectedSacl},
	{"UnprotectedDacl", SecurityUnprotectedDacl},
	{"ProtectedSacl", SecurityProtectedSacl},
	{"ProtectedDacl", SecurityProtectedDacl},
}

// Or returns the union of s and other.
func (s SecurityInformation) Or(other SecurityInformation) SecurityInformation { return s | other }

// And returns the intersection of s and other.
func (s SecurityInformation) And(other SecurityInformation) SecurityInformation { return s & other }

// Xor returns the symmetric difference of s and other.
func (s SecurityInformation) Xor(other SecurityInformation) SecurityInformation { return s ^ other }

// Not returns the bitwise complement of s.
func (s SecurityInformation) Not() SecurityInformation { return ^s }

// Minus returns s with other's bits cleared.
func (s SecurityInformation) Minus(other SecurityInformation) SecurityInformation { return s &^ other }

// Has reports whether every bit of other is set in s.
func (s SecurityInformation) Has(other SecurityInformation) bool { return s&other == other }

// Value returns the raw bitmask.
func (s SecurityInformation) Value() uint32 { return uint32(s) }

// DisplayString renders the set flags in registry order, joined by
// " | ". Returns ErrNotSupported when no registered flag matches.
func (s SecurityInformation) DisplayString() (string, error) {
	return renderFlags(s, "SecurityInformation", securityInformationRegistry)
}

// String implements fmt.Stringer; unmatched values render empty.
func (s SecurityInformation) String() string {
	out, err := s.DisplayString()
	if err != nil {
		return ""
	}
	return out
}
