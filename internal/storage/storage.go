// Package storage issues short-lived signed URLs against external object
// storage. The application process never carries file bytes; clients talk to
// the store directly with the capability URL.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/halewood/onboarding-api/internal/config"
)

// Signer issues time-boxed capability URLs for single objects.
type Signer interface {
	// PresignUpload returns a URL that allows one PUT to objectPath until expiry.
	PresignUpload(ctx context.Context, objectPath string, expiry time.Duration) (string, error)

	// PresignDownload returns a URL that allows one GET of objectPath until
	// expiry. downloadName, when set, becomes the attachment filename.
	PresignDownload(ctx context.Context, objectPath string, downloadName string, expiry time.Duration) (string, error)
}

// MinioSigner signs URLs against an S3-compatible endpoint.
type MinioSigner struct {
	client *minio.Client
	bucket string
}

// NewMinioSigner connects a signer to the configured endpoint and bucket.
func NewMinioSigner(cfg *config.Config) (*MinioSigner, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinioSigner{
		client: client,
		bucket: cfg.StorageBucket,
	}, nil
}

// PresignUpload returns a signed PUT URL for the object path.
func (s *MinioSigner) PresignUpload(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	signed, err := s.client.PresignedPutObject(ctx, s.bucket, objectPath, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL: %w", err)
	}
	return signed.String(), nil
}

// PresignDownload returns a signed GET URL for the object path.
func (s *MinioSigner) PresignDownload(ctx context.Context, objectPath string, downloadName string, expiry time.Duration) (string, error) {
	params := url.Values{}
	if downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName))
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return signed.String(), nil
}
