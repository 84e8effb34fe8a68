package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidshare/backend/internal/config"
)

// S3Backend implements Signer and Uploader against an S3-compatible object
// store. Unlike the shared-key signer, presigning here reflects SigV4 semantics:
// the validity window starts at signing time, so only the expiry is configurable.
type S3Backend struct {
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	bucket    string
}

// NewS3Backend configures a presigner and uploader targeting the provided
// object store.
func NewS3Backend(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Backend, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("blob: s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Backend{
		presigner: s3.NewPresignClient(client),
		uploader:  uploader,
		bucket:    cfg.Bucket,
	}, nil
}

// SignURL presigns a GET for read grants and a PUT for create/write grants. The
// container argument is ignored: an S3 backend scopes every key to its bucket.
func (b *S3Backend) SignURL(ctx context.Context, blobName string, ttl time.Duration, perm Permission, _ string) (SignedURL, error) {
	if blobName == "" {
		return SignedURL{}, fmt.Errorf("blob: blob name must not be empty")
	}

	ttl = ClampTTL(ttl)

	var signedURL string
	if perm.CanCreate() || perm.CanWrite() {
		req, err := b.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(blobName),
		}, s3.WithPresignExpires(ttl))
		if err != nil {
			return SignedURL{}, fmt.Errorf("blob: presign put %s: %w", blobName, err)
		}
		signedURL = req.URL
	} else {
		req, err := b.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(blobName),
		}, s3.WithPresignExpires(ttl))
		if err != nil {
			return SignedURL{}, fmt.Errorf("blob: presign get %s: %w", blobName, err)
		}
		signedURL = req.URL
	}

	return SignedURL{
		BlobName:   blobName,
		URL:        signedURL,
		Permission: perm,
		ExpiresIn:  ttl,
	}, nil
}

// Upload stores content through the managed uploader and returns the object key
// path within the bucket.
func (b *S3Backend) Upload(ctx context.Context, blobName, contentType string, body io.Reader) (string, error) {
	key := strings.TrimLeft(blobName, "/")
	if key == "" {
		return "", fmt.Errorf("blob: empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blob: s3 upload %s: %w", key, err)
	}

	return key, nil
}

var _ Signer = (*S3Backend)(nil)
var _ Uploader = (*S3Backend)(nil)
