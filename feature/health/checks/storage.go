package checks

import (
	"context"
	"fmt"

	"shoplist/core/storage"

	"github.com/minio/minio-go/v7"
)

// CheckBucket verifies the bucket is reachable and exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

// CheckObject reports whether an object is present. A missing object is not an error.
func CheckObject(ctx context.Context, client storage.Client, bucket, object string) (bool, error) {
	_, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", object, err)
}
