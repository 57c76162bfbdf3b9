package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"lms_backend/platform/apperr"
	"lms_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the lifetime of presigned URLs.
const PresignedURLTTL = 15 * time.Minute

// MinIOService implements Service on top of the MinIO client.
type MinIOService struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// Connect creates the client and blocks until the bucket is confirmed to exist.
func Connect(ctx context.Context, cfg config.MediaConfig) (*MinIOService, error) {
	client, err := minio.New(cfg.GetMediaEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMediaAccessKey(), cfg.GetMediaSecretKey(), ""),
		Secure: cfg.GetMediaUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media client: %w", err)
	}

	svc := &MinIOService{
		client:      client,
		bucket:      cfg.GetMediaBucket(),
		maxFileSize: cfg.GetMediaMaxFileSize(),
	}
	if err := svc.EnsureBucketExists(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL creates a presigned URL for uploading a file.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(sizeBytes); err != nil {
		return nil, err
	}

	fileKey := ObjectKey(folder, fileName)
	expiresAt := time.Now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{
		URL:       presigned.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a file.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	if strings.TrimSpace(fileKey) == "" {
		return nil, apperr.Validation("file key is required")
	}

	expiresAt := time.Now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, make(url.Values))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURL{
		URL:       presigned.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// ObjectKey builds a UUID-suffixed key under folder, keeping the file extension.
func ObjectKey(folder, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "file"
	}
	unique := fmt.Sprintf("%s_%s%s", stem, uuid.New().String(), ext)
	return path.Join(strings.Trim(folder, "/"), unique)
}

var _ Service = (*MinIOService)(nil)
