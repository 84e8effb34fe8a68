// Package blob issues time-limited signed URLs for objects held in external
// storage and provides a server-side upload path for the legacy endpoint. The
// Azure shared-key implementation is the production backend; the S3 backend and
// the interfaces exist so deployments (and tests) can substitute one.
package blob

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTTL applies when the caller does not request an expiry.
	DefaultTTL = time.Hour
	// MinTTL and MaxTTL bound the exposure window of any leaked URL.
	MinTTL = time.Minute
	MaxTTL = 24 * time.Hour
	// ClockSkew backdates a grant's start time so the storage service accepts
	// URLs even when its clock runs ahead of ours.
	ClockSkew = 5 * time.Minute
)

// SignedURL is an issued access grant. It is never persisted; it is returned to
// the caller and forgotten.
type SignedURL struct {
	BlobName   string
	URL        string
	Permission Permission
	ExpiresIn  time.Duration
}

// Signer produces signed URLs for blobs. A zero ttl selects DefaultTTL; an
// empty container selects the signer's configured default container.
type Signer interface {
	SignURL(ctx context.Context, blobName string, ttl time.Duration, perm Permission, container string) (SignedURL, error)
}

// Uploader persists blob content server-side and returns the plain (non-signed)
// blob URL. Only the legacy upload endpoint uses it; the primary upload path
// sends bytes directly from the client to storage.
type Uploader interface {
	Upload(ctx context.Context, blobName, contentType string, body io.Reader) (string, error)
}

// ClampTTL normalises a requested validity duration: zero or negative becomes
// DefaultTTL, anything outside [MinTTL, MaxTTL] snaps to the nearest bound.
func ClampTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl <= 0:
		return DefaultTTL
	case ttl < MinTTL:
		return MinTTL
	case ttl > MaxTTL:
		return MaxTTL
	default:
		return ttl
	}
}

// EncodeBlobPath percent-encodes a blob name for use in a URL path while
// preserving '/' separators, so hierarchical blob names stay navigable.
func EncodeBlobPath(blobName string) string {
	segments := strings.Split(blobName, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
