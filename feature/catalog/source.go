package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"shoplist/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Origin names where the active table came from.
type Origin string

const (
	// OriginEmbedded is the table compiled into the binary.
	OriginEmbedded Origin = "embedded"
	// OriginStorage is an override table read from object storage.
	OriginStorage Origin = "storage"
)

// FetchTable downloads and validates the catalog object.
func FetchTable(ctx context.Context, client storage.Client, bucket, object string) (*Table, error) {
	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog object: %w", err)
	}

	return ParseTable(data)
}

// LoadTable returns the override table from storage when one is configured and
// valid, otherwise the embedded table. Storage problems are logged, not returned.
func LoadTable(ctx context.Context, client storage.Client, bucket, object string, logger *zap.Logger) (*Table, Origin, error) {
	if client != nil && object != "" {
		table, err := FetchTable(ctx, client, bucket, object)
		if err == nil {
			logger.Info("Loaded catalog override",
				zap.String("bucket", bucket),
				zap.String("object", object),
				zap.Int("products", len(table.Products)),
			)
			return table, OriginStorage, nil
		}

		if storage.IsNotFound(err) {
			logger.Debug("No catalog override found", zap.String("object", object))
		} else {
			logger.Warn("Catalog override unusable, using embedded table",
				zap.String("object", object),
				zap.Error(err),
			)
		}
	}

	table, err := DefaultTable()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load embedded catalog: %w", err)
	}
	return table, OriginEmbedded, nil
}

// PublishTable validates data and uploads it as the catalog object, creating the bucket if needed.
func PublishTable(ctx context.Context, client storage.Client, bucket, object string, data []byte) (*Table, error) {
	table, err := ParseTable(data)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	_, err = client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/yaml",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload catalog: %w", err)
	}

	return table, nil
}
