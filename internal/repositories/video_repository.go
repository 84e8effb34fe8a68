package repositories

import (
	"context"

	"github.com/vidshare/backend/internal/models"
)

// VideoRepository exposes data access for video records and their append-only
// comment and rating collections.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	List(ctx context.Context) ([]models.Video, error)
	Get(ctx context.Context, id string) (models.Video, error)
	AddComment(ctx context.Context, videoID string, comment models.Comment) error
	AddRating(ctx context.Context, videoID string, rating models.Rating) error
	IncrementViews(ctx context.Context, videoID string) error
}
