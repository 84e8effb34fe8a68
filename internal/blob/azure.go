package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azblobblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// AzureSigner signs blob URLs with the storage account's shared key. Signing is
// a local HMAC computation; no request leaves the process.
type AzureSigner struct {
	cred             *azblob.SharedKeyCredential
	accountName      string
	endpointSuffix   string
	defaultContainer string

	// NowFunc allows tests to pin the issuance clock.
	NowFunc func() time.Time
}

// NewAzureSigner builds a signer from parsed account credentials.
func NewAzureSigner(creds Credentials, defaultContainer string) (*AzureSigner, error) {
	cred, err := azblob.NewSharedKeyCredential(creds.AccountName, creds.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("blob: build shared key credential: %w", err)
	}

	suffix := creds.EndpointSuffix
	if suffix == "" {
		suffix = DefaultEndpointSuffix
	}

	return &AzureSigner{
		cred:             cred,
		accountName:      creds.AccountName,
		endpointSuffix:   suffix,
		defaultContainer: defaultContainer,
	}, nil
}

// SignURL issues a signed URL valid from five minutes before now until now+ttl.
func (s *AzureSigner) SignURL(_ context.Context, blobName string, ttl time.Duration, perm Permission, container string) (SignedURL, error) {
	if blobName == "" {
		return SignedURL{}, fmt.Errorf("blob: blob name must not be empty")
	}
	if container == "" {
		container = s.defaultContainer
	}

	ttl = ClampTTL(ttl)
	now := s.now().UTC()

	perms := sasPermissions(perm)
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-ClockSkew),
		ExpiryTime:    now.Add(ttl),
		Permissions:   perms.String(),
		ContainerName: container,
		BlobName:      blobName,
	}

	params, err := values.SignWithSharedKey(s.cred)
	if err != nil {
		return SignedURL{}, fmt.Errorf("blob: sign %s: %w", blobName, err)
	}

	return SignedURL{
		BlobName:   blobName,
		URL:        fmt.Sprintf("%s?%s", s.blobURL(container, blobName), params.Encode()),
		Permission: perm,
		ExpiresIn:  ttl,
	}, nil
}

func (s *AzureSigner) blobURL(container, blobName string) string {
	return fmt.Sprintf("https://%s.blob.%s/%s/%s", s.accountName, s.endpointSuffix, container, EncodeBlobPath(blobName))
}

func (s *AzureSigner) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}

func sasPermissions(p Permission) sas.BlobPermissions {
	return sas.BlobPermissions{
		Read:   p.CanRead(),
		Create: p.CanCreate(),
		Write:  p.CanWrite(),
	}
}

// AzureUploader streams blob content into a container for the legacy
// server-side upload endpoint.
type AzureUploader struct {
	client    *azblob.Client
	container string
	signer    *AzureSigner
}

// NewAzureUploader connects a client for server-side uploads into the provided
// container.
func NewAzureUploader(connectionString, container string, signer *AzureSigner) (*AzureUploader, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("blob: build azure client: %w", err)
	}
	return &AzureUploader{client: client, container: container, signer: signer}, nil
}

// EnsureContainer creates the configured container if it does not exist. It is
// called once at startup, replacing a per-request existence check.
func (u *AzureUploader) EnsureContainer(ctx context.Context) error {
	_, err := u.client.CreateContainer(ctx, u.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("blob: ensure container %s: %w", u.container, err)
	}
	return nil
}

// Upload writes the body as a block blob and returns the plain blob URL. The
// container is private, so the returned URL is only usable through a read SAS.
func (u *AzureUploader) Upload(ctx context.Context, blobName, contentType string, body io.Reader) (string, error) {
	if blobName == "" {
		return "", fmt.Errorf("blob: blob name must not be empty")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.UploadStream(ctx, u.container, blobName, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &azblobblob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("blob: upload %s: %w", blobName, err)
	}

	return u.signer.blobURL(u.container, blobName), nil
}

var _ Signer = (*AzureSigner)(nil)
var _ Uploader = (*AzureUploader)(nil)
