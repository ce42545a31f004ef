package objects_test

import (
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"storage-gateway/core/storage"
	"storage-gateway/core/storage/mocks"
	"storage-gateway/feature/objects"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const presignBase = "http://localhost:9000/"

func newService(client *mocks.Client) *objects.Service {
	cfg := storage.Config{
		Bucket:               "shared-assets",
		PresignExpirySeconds: 900,
	}
	return objects.NewService(client, cfg, zap.NewNop())
}

func presignedURL(t *testing.T, bucket, key string) *url.URL {
	u, err := url.Parse(presignBase + bucket + "/" + key + "?X-Amz-Signature=test")
	require.NoError(t, err)
	return u
}

func expectPresign(t *testing.T, client *mocks.Client, bucket, key string) {
	client.On("PresignedGetObject", mock.Anything, bucket, key, mock.Anything, mock.Anything).
		Return(presignedURL(t, bucket, key), nil)
}

func connRefused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
}

func noSuchKey() error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}
}

func noSuchBucket() error {
	return minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404, Message: "The specified bucket does not exist"}
}

func objectChan(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k, Size: 10, ETag: "etag-" + k}
	}
	close(ch)
	return ch
}
