// Package storage provides the connection to the S3-compatible backend.
//
// It wraps the MinIO Go client behind the Client interface, which mirrors the minio-go
// method signatures. This supports both AWS S3 and self-hosted MinIO instances and makes
// it easy to mock backend interactions in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket / ListBuckets: bucket lifecycle.
//   - PutObject / GetObject / StatObject / RemoveObject: single object primitives.
//   - ListObjects: streaming listing (prefix, start-after, max keys).
//   - PresignedGetObject: time-limited download URLs.
//   - NewMultipartUpload / PutObjectPart / CompleteMultipartUpload / AbortMultipartUpload:
//     low-level multipart primitives backed by minio.Core.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, "shared-assets")
package storage
