// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a small interface for the operations the
// application needs: the product catalog override lives in a bucket, and the health
// check verifies both the bucket and the catalog object.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket if needed.
//   - PutObject: Uploads content (used to publish a catalog).
//   - GetObject: Retrieves content as a stream.
//   - StatObject: Reads object metadata.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "shoplist")
package storage
