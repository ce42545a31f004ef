package objects

import (
	"context"
	"io"
	"time"

	"storage-gateway/core/logger"
	"storage-gateway/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultListLimit is the page size used when ListOptions.Limit is zero.
	DefaultListLimit = 100
	// MaxListLimit caps ListOptions.Limit.
	MaxListLimit = 1000
	// DefaultPresignExpiry applies when the configuration leaves the expiry unset.
	DefaultPresignExpiry = 15 * time.Minute
	// MaxPresignExpiry is the longest lifetime S3 accepts for a presigned URL.
	MaxPresignExpiry = 7 * 24 * time.Hour
)

// Service implements bucket and object primitives against the S3-compatible backend.
// It keeps no state besides its collaborators; the backend is the only source of truth.
type Service struct {
	client  storage.Client
	cfg     storage.Config
	logger  *zap.Logger
	buckets singleflight.Group
}

// NewService creates a new object service.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// ListFiles returns one page of objects under opts.Prefix.
func (s *Service) ListFiles(ctx context.Context, bucket string, opts ListOptions) (*ListResult, error) {
	const op = "list"
	start := time.Now()
	l := logger.ForObject(s.logger, op, bucket, "")

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, "", err, KindBackend)
	}
	if !exists {
		return nil, &Error{Kind: KindBucketNotFound, Op: op, Bucket: bucket}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	listOpts := minio.ListObjectsOptions{Prefix: opts.Prefix, Recursive: true}
	if len(opts.Marker) > 1 {
		// StartAfter is exclusive; starting after the marker's parent keeps the marker in range.
		listOpts.StartAfter = opts.Marker[:len(opts.Marker)-1]
	}

	// Cancelling stops the background listing once the page is full.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := &ListResult{Files: make([]StorageObject, 0, limit)}
	for obj := range s.client.ListObjects(listCtx, bucket, listOpts) {
		if obj.Err != nil {
			l.Error("Listing failed", zap.Error(obj.Err), logger.Elapsed(start))
			return nil, backendError(op, bucket, "", obj.Err, KindBackend)
		}
		if opts.Marker != "" && obj.Key < opts.Marker {
			continue
		}
		if len(result.Files) == limit {
			result.Truncated = true
			result.NextMarker = obj.Key
			break
		}
		result.Files = append(result.Files, toStorageObject(bucket, obj))
	}
	result.Count = len(result.Files)

	l.Debug("Listed objects", zap.Int("count", result.Count), zap.Bool("truncated", result.Truncated), logger.Elapsed(start))
	return result, nil
}

// GetFileURL issues a presigned download URL for an existing object.
// A zero expiry uses the configured default.
func (s *Service) GetFileURL(ctx context.Context, bucket, key string, expiry time.Duration) (*FileURL, error) {
	const op = "getUrl"
	start := time.Now()

	if err := ValidateKey(key); err != nil {
		return nil, withOp(err, op, bucket)
	}
	if _, err := s.stat(ctx, op, bucket, key); err != nil {
		return nil, err
	}

	expiry = s.clampExpiry(expiry)
	u, err := s.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		logger.ForObject(s.logger, op, bucket, key).Error("Presign failed", zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, key, err, KindBackend)
	}

	return &FileURL{
		URL:       u.String(),
		ExpiresIn: int64(expiry / time.Second),
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// DeleteFile removes an object. It fails with ErrObjectNotFound, without issuing the
// delete, when the object does not exist.
func (s *Service) DeleteFile(ctx context.Context, bucket, key string) (*DeleteResult, error) {
	const op = "delete"
	start := time.Now()
	l := logger.ForObject(s.logger, op, bucket, key)

	if err := ValidateKey(key); err != nil {
		return nil, withOp(err, op, bucket)
	}
	if _, err := s.stat(ctx, op, bucket, key); err != nil {
		return nil, err
	}

	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		l.Error("Delete failed", zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, key, err, KindBackend)
	}

	l.Info("Deleted object", logger.Elapsed(start))
	return &DeleteResult{Success: true, DeletedAt: time.Now()}, nil
}

// StatFile returns the metadata of one object.
func (s *Service) StatFile(ctx context.Context, bucket, key string) (*StorageObject, error) {
	const op = "stat"
	if err := ValidateKey(key); err != nil {
		return nil, withOp(err, op, bucket)
	}
	info, err := s.stat(ctx, op, bucket, key)
	if err != nil {
		return nil, err
	}
	obj := toStorageObject(bucket, info)
	if obj.Key == "" {
		obj.Key = key
	}
	return &obj, nil
}

// ReadFile downloads the content of one object. The thumbnail command uses it to
// fetch an original image.
func (s *Service) ReadFile(ctx context.Context, bucket, key string) ([]byte, error) {
	const op = "read"
	if err := ValidateKey(key); err != nil {
		return nil, withOp(err, op, bucket)
	}
	if _, err := s.stat(ctx, op, bucket, key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, backendError(op, bucket, key, err, KindBackend)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, backendError(op, bucket, key, err, KindBackend)
	}
	return data, nil
}

// CheckHealth probes the backend. A missing health bucket still counts as healthy:
// health means the backend is reachable.
func (s *Service) CheckHealth(ctx context.Context) HealthStatus {
	start := time.Now()
	err := s.probe(ctx)
	status := HealthStatus{
		Healthy:   true,
		LatencyMs: uint64(time.Since(start).Milliseconds()),
		Timestamp: start,
	}

	switch {
	case err == nil:
	case isNoSuchBucket(err):
		s.logger.Debug("Health bucket missing, backend reachable", zap.String("bucket", s.cfg.Bucket))
	default:
		status.Healthy = false
		status.Error = backendError("health", s.cfg.Bucket, "", err, KindBackend).Error()
		s.logger.Warn("Storage backend unhealthy", zap.Error(err), logger.Elapsed(start))
	}
	return status
}

func (s *Service) probe(ctx context.Context) error {
	if s.cfg.Bucket == "" {
		_, err := s.client.ListBuckets(ctx)
		return err
	}

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	obj, ok := <-s.client.ListObjects(probeCtx, s.cfg.Bucket, minio.ListObjectsOptions{MaxKeys: 1})
	if !ok {
		return nil
	}
	return obj.Err
}

func (s *Service) stat(ctx context.Context, op, bucket, key string) (minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return minio.ObjectInfo{}, &Error{Kind: KindObjectNotFound, Op: op, Bucket: bucket, Key: key, Err: err}
		}
		logger.ForObject(s.logger, op, bucket, key).Error("Stat failed", zap.Error(err))
		return minio.ObjectInfo{}, backendError(op, bucket, key, err, KindBackend)
	}
	return info, nil
}

func (s *Service) clampExpiry(expiry time.Duration) time.Duration {
	if expiry <= 0 {
		expiry = time.Duration(s.cfg.PresignExpirySeconds) * time.Second
	}
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	if expiry < time.Second {
		expiry = time.Second
	}
	if expiry > MaxPresignExpiry {
		expiry = MaxPresignExpiry
	}
	return expiry
}

func toStorageObject(bucket string, info minio.ObjectInfo) StorageObject {
	meta := metadataFromInfo(info)
	return StorageObject{
		Bucket:       bucket,
		Key:          info.Key,
		SizeBytes:    uint64(info.Size),
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		ChecksumMD5:  meta[MetaChecksum],
		Metadata:     meta,
	}
}

// withOp fills in the operation context of a validation error.
func withOp(err error, op, bucket string) error {
	if e, ok := err.(*Error); ok {
		e.Op = op
		e.Bucket = bucket
	}
	return err
}
