package objects

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"storage-gateway/core/logger"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMultipartThreshold is the payload size at which uploads switch to multipart.
	DefaultMultipartThreshold int64 = 5 << 20
	// DefaultMultipartConcurrency bounds parallel part uploads within one upload.
	DefaultMultipartConcurrency = 4
	// minPartSize is the smallest non-final part S3 accepts.
	minPartSize int64 = 5 << 20
)

// bucketEnsureTimeout bounds the shared bucket check and creation.
const bucketEnsureTimeout = 30 * time.Second

// UploadFile stores data under bucket/key, creating the bucket when missing, and returns
// the upload summary with a freshly presigned download URL. Re-uploading a key overwrites it.
func (s *Service) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string, meta UploadMetadata) (*UploadResult, error) {
	const op = "upload"
	start := time.Now()
	l := logger.ForObject(s.logger, op, bucket, key)

	if err := ValidateKey(key); err != nil {
		return nil, withOp(err, op, bucket)
	}
	if err := validateContentType(contentType); err != nil {
		return nil, withOp(err, op, bucket)
	}

	if err := s.ensureBucket(ctx, bucket); err != nil {
		l.Error("Bucket ensure failed", zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, key, err, KindUploadFailed)
	}

	sum := md5.Sum(data)
	checksum := hex.EncodeToString(sum[:])
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta.userMetadata(checksum),
	}

	size := int64(len(data))
	multipart := size >= s.threshold()

	var (
		info minio.UploadInfo
		err  error
	)
	if multipart {
		info, err = s.putMultipart(ctx, bucket, key, data, opts)
	} else {
		info, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), size, opts)
	}
	if err != nil {
		l.Error("Upload failed", zap.Bool("multipart", multipart), zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, key, err, KindUploadFailed)
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, key, s.clampExpiry(0), nil)
	if err != nil {
		l.Error("Presign after upload failed", zap.Error(err), logger.Elapsed(start))
		return nil, backendError(op, bucket, key, err, KindUploadFailed)
	}

	l.Info("Uploaded object",
		zap.Int64("size", size),
		zap.Bool("multipart", multipart),
		zap.String("md5", checksum),
		logger.Elapsed(start))

	return &UploadResult{
		Key:         key,
		Bucket:      bucket,
		URL:         u.String(),
		SizeBytes:   uint64(size),
		ETag:        info.ETag,
		ContentType: contentType,
		ChecksumMD5: checksum,
		Metadata:    meta.Normalize(),
		Multipart:   multipart,
	}, nil
}

// ensureBucket creates bucket if it does not exist. Concurrent callers for the same
// bucket share one check that runs detached from any single caller's context; each
// caller still stops waiting when its own context ends. A concurrent creation
// elsewhere is absorbed as success.
func (s *Service) ensureBucket(ctx context.Context, bucket string) error {
	ch := s.buckets.DoChan(bucket, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketEnsureTimeout)
		defer cancel()

		exists, err := s.client.BucketExists(fctx, bucket)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, nil
		}
		if err := s.client.MakeBucket(fctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			if isBucketAlreadyOwned(err) {
				return nil, nil
			}
			return nil, err
		}
		s.logger.Info("Created bucket", zap.String("bucket", bucket))
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// putMultipart splits data into threshold-sized parts and uploads them with bounded
// concurrency. Any failure aborts the upload so no partial object or orphaned parts remain.
func (s *Service) putMultipart(ctx context.Context, bucket, key string, data []byte, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	uploadID, err := s.client.NewMultipartUpload(ctx, bucket, key, opts)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("initiate multipart upload: %w", err)
	}

	partSize := max(s.threshold(), minPartSize)
	size := int64(len(data))
	count := int((size + partSize - 1) / partSize)
	parts := make([]minio.CompletePart, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i := 0; i < count; i++ {
		offset := int64(i) * partSize
		chunk := data[offset:min(offset+partSize, size)]
		partNumber := i + 1

		g.Go(func() error {
			sum := md5.Sum(chunk)
			part, err := s.client.PutObjectPart(gctx, bucket, key, uploadID, partNumber,
				bytes.NewReader(chunk), int64(len(chunk)),
				minio.PutObjectPartOptions{Md5Base64: base64.StdEncoding.EncodeToString(sum[:])})
			if err != nil {
				return fmt.Errorf("upload part %d: %w", partNumber, err)
			}
			parts[partNumber-1] = minio.CompletePart{PartNumber: partNumber, ETag: part.ETag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.abortMultipart(ctx, bucket, key, uploadID)
		return minio.UploadInfo{}, err
	}

	info, err := s.client.CompleteMultipartUpload(ctx, bucket, key, uploadID, parts, opts)
	if err != nil {
		s.abortMultipart(ctx, bucket, key, uploadID)
		return minio.UploadInfo{}, fmt.Errorf("complete multipart upload: %w", err)
	}
	return info, nil
}

func (s *Service) abortMultipart(ctx context.Context, bucket, key, uploadID string) {
	// The abort must run even when the caller's context is already cancelled.
	abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := s.client.AbortMultipartUpload(abortCtx, bucket, key, uploadID); err != nil {
		logger.ForObject(s.logger, "upload", bucket, key).Warn("Abort multipart upload failed",
			zap.String("upload_id", uploadID), zap.Error(err))
	}
}

func (s *Service) threshold() int64 {
	if s.cfg.MultipartThresholdBytes > 0 {
		return s.cfg.MultipartThresholdBytes
	}
	return DefaultMultipartThreshold
}

func (s *Service) concurrency() int {
	if s.cfg.MultipartConcurrency > 0 {
		return s.cfg.MultipartConcurrency
	}
	return DefaultMultipartConcurrency
}
