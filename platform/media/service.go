// Package media connects to the S3-compatible media host that stores course
// thumbnails, lecture videos and attachments.
package media

import (
	"context"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned upload/download operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service defines the media operations route handlers depend on.
type Service interface {
	// GenerateUploadURL validates the file metadata and returns a presigned PUT URL.
	// The folder parameter is the key prefix (e.g. "educators/{userId}").
	GenerateUploadURL(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)

	// GenerateDownloadURL returns a presigned GET URL for an existing key.
	GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error)
}
