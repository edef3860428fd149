// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client and is used by the s3 grid backend, which downloads a
// workbook object, reconciles tickets into it and uploads it back. This abstraction supports
// both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the bucket on first upload.
//   - PutObject: Uploads the workbook.
//   - GetObject: Retrieves the workbook as a stream.
//   - StatObject: Checks whether the workbook exists yet.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "refraction")
package storage
