package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/models"
)

var (
	// ErrMissingTitle indicates a metadata submission without a title.
	ErrMissingTitle = errors.New("media: title is required")
	// ErrMissingBlobName indicates a metadata submission without a blob reference.
	ErrMissingBlobName = errors.New("media: blobName is required")
)

// maxWriteGrantTTL caps upload grants regardless of what the caller asks for.
// A write-scoped URL that outlives the upload attempt is pure exposure.
const maxWriteGrantTTL = time.Hour

// VideoCreator persists a freshly recorded video.
type VideoCreator interface {
	Create(ctx context.Context, video models.Video) error
}

// UploadCoordinator runs the server side of the indirect upload flow: it issues
// write-scoped grants, and records metadata once the caller reports the bytes
// transferred. It never touches the blob bytes itself.
type UploadCoordinator struct {
	signer    blob.Signer
	videos    VideoCreator
	container string

	// NowFunc allows tests to pin record timestamps.
	NowFunc func() time.Time
}

// NewUploadCoordinator wires the coordinator to its signer and video store.
func NewUploadCoordinator(signer blob.Signer, videos VideoCreator, container string) *UploadCoordinator {
	return &UploadCoordinator{signer: signer, videos: videos, container: container}
}

// NewBlobName builds a collision-resistant blob name from an original filename:
// a random token prefix plus the sanitised base name. The caller supplies this
// name when requesting the write grant and again when recording metadata.
func NewBlobName(originalFilename string) string {
	base := strings.TrimSpace(originalFilename)
	if base == "" {
		base = "video.mp4"
	}
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	return uuid.NewString() + "-" + sanitizeFilename(base)
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// IssueGrant returns a signed URL for the named blob. Grants that can create
// or write are additionally capped at one hour regardless of the requested TTL;
// the signer's own clamp applies on top.
func (c *UploadCoordinator) IssueGrant(ctx context.Context, blobName string, ttl time.Duration, perm blob.Permission) (blob.SignedURL, error) {
	if (perm.CanCreate() || perm.CanWrite()) && (ttl <= 0 || ttl > maxWriteGrantTTL) {
		ttl = maxWriteGrantTTL
	}
	return c.signer.SignURL(ctx, blobName, ttl, perm, c.container)
}

// VideoDraft carries caller-submitted metadata for a completed upload.
type VideoDraft struct {
	Title             string
	BlobName          string
	Container         string
	ThumbnailBlobName string
	Publisher         string
	Producer          string
	Genre             string
	AgeRating         string
}

// Record validates the draft and persists the video record. This is the only
// step of the upload flow that touches the database; nothing is written when
// validation fails.
func (c *UploadCoordinator) Record(ctx context.Context, draft VideoDraft) (models.Video, error) {
	title := strings.TrimSpace(draft.Title)
	blobName := strings.TrimSpace(draft.BlobName)

	if title == "" {
		return models.Video{}, ErrMissingTitle
	}
	if blobName == "" {
		return models.Video{}, ErrMissingBlobName
	}

	container := strings.TrimSpace(draft.Container)
	if container == "" {
		container = c.container
	}

	video := models.Video{
		ID:                uuid.NewString(),
		Title:             title,
		BlobName:          blobName,
		Container:         container,
		ThumbnailBlobName: strings.TrimSpace(draft.ThumbnailBlobName),
		Publisher:         strings.TrimSpace(draft.Publisher),
		Producer:          strings.TrimSpace(draft.Producer),
		Genre:             strings.TrimSpace(draft.Genre),
		AgeRating:         strings.TrimSpace(draft.AgeRating),
		UploadedAt:        c.now(),
	}

	if err := c.videos.Create(ctx, video); err != nil {
		return models.Video{}, fmt.Errorf("record video %s: %w", blobName, err)
	}

	return video, nil
}

func (c *UploadCoordinator) now() time.Time {
	if c.NowFunc != nil {
		return c.NowFunc()
	}
	return time.Now().UTC()
}
