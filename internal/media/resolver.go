package media

import (
	"context"
	"time"

	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/logging"
	"github.com/vidshare/backend/internal/models"
)

// readGrantTTL is how long resolved playback URLs stay valid. Resolution runs
// on every read, so callers always receive a fresh, unexpired URL.
const readGrantTTL = time.Hour

// PlaybackURLs carries the signed URLs attached to a video on read. A nil field
// means signing failed for that blob; the record itself is still served.
type PlaybackURLs struct {
	Playback *string
	Poster   *string
}

// PlaybackResolver issues read-scoped grants for a video's primary blob and its
// thumbnail at read time.
type PlaybackResolver struct {
	signer blob.Signer
}

// NewPlaybackResolver builds a resolver over the provided signer.
func NewPlaybackResolver(signer blob.Signer) *PlaybackResolver {
	return &PlaybackResolver{signer: signer}
}

// Resolve returns playback and poster URLs for the record. Signer errors are
// swallowed per blob: one unsignable record must not fail a listing of many.
func (r *PlaybackResolver) Resolve(ctx context.Context, video models.Video) PlaybackURLs {
	logger := logging.FromContext(ctx)

	var urls PlaybackURLs

	if signed, err := r.signer.SignURL(ctx, video.BlobName, readGrantTTL, blob.PermRead, video.Container); err != nil {
		logger.Warn("resolve playback url", "videoId", video.ID, "blobName", video.BlobName, "error", err)
	} else {
		urls.Playback = &signed.URL
	}

	thumbName := video.ThumbnailBlobName
	if thumbName == "" {
		thumbName = ThumbnailName(video.BlobName)
	}
	if thumbName != "" {
		if signed, err := r.signer.SignURL(ctx, thumbName, readGrantTTL, blob.PermRead, video.Container); err != nil {
			logger.Warn("resolve poster url", "videoId", video.ID, "blobName", thumbName, "error", err)
		} else {
			urls.Poster = &signed.URL
		}
	}

	return urls
}
