package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/handlers"
	"github.com/vidshare/backend/internal/media"
	"github.com/vidshare/backend/internal/middleware"
	"github.com/vidshare/backend/internal/repositories"
)

// containerPreparer is implemented by blob backends that can create their
// container up front.
type containerPreparer interface {
	EnsureContainer(ctx context.Context) error
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	signer, uploader, err := buildBlobBackend(ctx, cfg)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	videos := repositories.NewPostgresVideoRepository(pool)

	return handlers.Dependencies{
		Users:       repositories.NewPostgresUserRepository(pool),
		Tokens:      auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Videos:      videos,
		Coordinator: media.NewUploadCoordinator(signer, videos, cfg.BlobContainer),
		Resolver:    media.NewPlaybackResolver(signer),
		Uploader:    uploader,
		AuthLimiter: middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}, nil
}

func buildBlobBackend(ctx context.Context, cfg config.Config) (blob.Signer, blob.Uploader, error) {
	switch cfg.StorageBackend {
	case config.BackendAzure:
		creds, err := blob.ParseConnectionString(cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, err
		}
		signer, err := blob.NewAzureSigner(creds, cfg.BlobContainer)
		if err != nil {
			return nil, nil, err
		}
		uploader, err := blob.NewAzureUploader(cfg.StorageConnectionString, cfg.BlobContainer, signer)
		if err != nil {
			return nil, nil, err
		}
		return signer, uploader, nil
	case config.BackendS3:
		backend, err := blob.NewS3Backend(ctx, cfg.ObjectStore)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
