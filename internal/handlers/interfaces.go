package handlers

import (
	"context"
	"time"

	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/media"
	"github.com/vidshare/backend/internal/models"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// TokenIssuer signs login tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// VideoStore captures persistence for video records and their collections.
type VideoStore interface {
	List(ctx context.Context) ([]models.Video, error)
	AddComment(ctx context.Context, videoID string, comment models.Comment) error
	AddRating(ctx context.Context, videoID string, rating models.Rating) error
	IncrementViews(ctx context.Context, videoID string) error
}

// GrantIssuer signs time-limited access grants for blobs.
type GrantIssuer interface {
	IssueGrant(ctx context.Context, blobName string, ttl time.Duration, perm blob.Permission) (blob.SignedURL, error)
}

// UploadRecorder runs the server side of the indirect upload flow.
type UploadRecorder interface {
	GrantIssuer
	Record(ctx context.Context, draft media.VideoDraft) (models.Video, error)
}

// PlaybackAnnotator resolves read-scoped URLs for stored videos.
type PlaybackAnnotator interface {
	Resolve(ctx context.Context, video models.Video) media.PlaybackURLs
}
