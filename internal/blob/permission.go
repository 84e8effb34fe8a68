package blob

import "strings"

// Permission is the closed set of access grants a signed URL may carry. Anything
// outside the whitelist parses as PermRead: callers asking for an unknown
// combination get a read-only URL, never an error.
type Permission string

const (
	PermRead        Permission = "r"
	PermWrite       Permission = "w"
	PermCreate      Permission = "c"
	PermCreateWrite Permission = "cw"
	PermFullAccess  Permission = "rcw"
)

// ParsePermission maps a caller-supplied permission string onto the whitelist,
// case-insensitively, downgrading anything unrecognised to read-only.
func ParsePermission(s string) Permission {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermRead:
		return PermRead
	case PermWrite:
		return PermWrite
	case PermCreate:
		return PermCreate
	case PermCreateWrite:
		return PermCreateWrite
	case PermFullAccess:
		return PermFullAccess
	default:
		return PermRead
	}
}

// CanRead reports whether the grant permits reading the blob.
func (p Permission) CanRead() bool { return strings.ContainsRune(string(p), 'r') }

// CanCreate reports whether the grant permits creating the blob.
func (p Permission) CanCreate() bool { return strings.ContainsRune(string(p), 'c') }

// CanWrite reports whether the grant permits writing blob content.
func (p Permission) CanWrite() bool { return strings.ContainsRune(string(p), 'w') }

func (p Permission) String() string { return string(p) }
