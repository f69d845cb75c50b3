// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the media pipeline needs: ensuring the bucket exists, uploading
// fetched binaries and their derivatives, and streaming them back out. This
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: Verify and create the media bucket (EnsureBucket).
//   - PutObject: Uploads content (with size and options).
//   - GetObject / StatObject: Stream content and read its metadata.
//   - RemoveObject: Deletes partially written media.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
