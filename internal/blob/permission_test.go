package blob

import "testing"

func TestParsePermissionWhitelist(t *testing.T) {
	cases := map[string]Permission{
		"r":       PermRead,
		"w":       PermWrite,
		"c":       PermCreate,
		"cw":      PermCreateWrite,
		"rcw":     PermFullAccess,
		"R":       PermRead,
		"CW":      PermCreateWrite,
		" rcw ":   PermFullAccess,
		"":        PermRead,
		"d":       PermRead,
		"rw":      PermRead,
		"wc":      PermRead,
		"rcwd":    PermRead,
		"delete":  PermRead,
		"*":       PermRead,
	}

	for input, want := range cases {
		if got := ParsePermission(input); got != want {
			t.Errorf("ParsePermission(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPermissionCapabilities(t *testing.T) {
	if !PermRead.CanRead() || PermRead.CanWrite() || PermRead.CanCreate() {
		t.Error("r should be read-only")
	}
	if !PermCreateWrite.CanCreate() || !PermCreateWrite.CanWrite() || PermCreateWrite.CanRead() {
		t.Error("cw should create and write, not read")
	}
	if !PermFullAccess.CanRead() || !PermFullAccess.CanCreate() || !PermFullAccess.CanWrite() {
		t.Error("rcw should allow everything")
	}
}
