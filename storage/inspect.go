package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// BucketStats summarizes one key prefix of the bucket.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// ListBucketObjects lists objects under a prefix ("audio/", "licenses/", or
// "" for everything) together with aggregate stats. Used by the storage
// diagnostics command to audit uploads, including orphans left behind by
// partially failed uploads.
func ListBucketObjects(bucket, prefix string) ([]ObjectInfo, *BucketStats, error) {
	client := GetMinioClient()
	if client == nil {
		return nil, nil, fmt.Errorf("MinIO client not initialized")
	}

	ctx := context.Background()
	stats := &BucketStats{}
	var objects []ObjectInfo

	objectCh := client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}

		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}

		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}

	return objects, stats, nil
}

// FormatSize renders a byte count for human eyes.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
