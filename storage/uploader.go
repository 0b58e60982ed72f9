package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"MuseFM/config"

	"github.com/minio/minio-go/v7"
)

// Uploader stores a binary payload under a key and returns the public URL it
// can be retrieved from.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// minioUploader implements Uploader on top of the shared MinIO client.
type minioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioUploader creates an uploader for the configured bucket. Retrieval
// URLs are built from MinioPublicURL when set, otherwise from the endpoint.
func NewMinioUploader(cfg *config.Config) Uploader {
	baseURL := cfg.MinioPublicURL
	if baseURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}
	return &minioUploader{
		client:  GetMinioClient(),
		bucket:  cfg.MinioBucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload writes the payload to object storage and returns its public URL.
func (u *minioUploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if u.client == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	opts := minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	}
	if _, err := u.client.PutObject(ctx, u.bucket, key, body, size, opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return u.baseURL + "/" + key, nil
}
