package objects_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"storage-gateway/core/storage"
	"storage-gateway/core/storage/mocks"
	"storage-gateway/feature/objects"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var uploadKeys = []string{"uploads/a.mp4", "uploads/b.mp4", "uploads/c.mp4", "uploads/d.mp4", "uploads/e.mp4"}

func TestListFiles(t *testing.T) {
	t.Run("FirstPage", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
		client.On("ListObjects", mock.Anything, "videos", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "uploads/" && o.Recursive && o.StartAfter == ""
		})).Return(objectChan(uploadKeys...))

		res, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{Prefix: "uploads/", Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, 2, res.Count)
		require.Len(t, res.Files, 2)
		assert.Equal(t, "uploads/a.mp4", res.Files[0].Key)
		assert.Equal(t, "uploads/b.mp4", res.Files[1].Key)
		assert.Equal(t, "videos", res.Files[0].Bucket)
		assert.True(t, res.Truncated)
		assert.Equal(t, "uploads/c.mp4", res.NextMarker)
	})

	t.Run("ResumeFromMarker", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
		client.On("ListObjects", mock.Anything, "videos", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.StartAfter == "uploads/c.mp"
		})).Return(objectChan(uploadKeys...))

		res, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{Prefix: "uploads/", Limit: 2, Marker: "uploads/c.mp4"})
		require.NoError(t, err)

		require.Len(t, res.Files, 2)
		assert.Equal(t, "uploads/c.mp4", res.Files[0].Key)
		assert.Equal(t, "uploads/d.mp4", res.Files[1].Key)
		assert.True(t, res.Truncated)
		assert.Equal(t, "uploads/e.mp4", res.NextMarker)
	})

	t.Run("LastPage", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
		client.On("ListObjects", mock.Anything, "videos", mock.Anything).Return(objectChan(uploadKeys...))

		res, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{Marker: "uploads/e.mp4", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		assert.False(t, res.Truncated)
		assert.Empty(t, res.NextMarker)
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
		client.On("ListObjects", mock.Anything, "videos", mock.Anything).Return(objectChan(uploadKeys...))

		res, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 5, res.Count)
		assert.False(t, res.Truncated)
	})

	t.Run("BucketMissing", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("BucketExists", mock.Anything, "videos").Return(false, nil)

		_, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{})
		assert.ErrorIs(t, err, objects.ErrBucketNotFound)
		client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ListingError", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("boom")}
		close(ch)
		client.On("BucketExists", mock.Anything, "videos").Return(true, nil)
		client.On("ListObjects", mock.Anything, "videos", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := svc.ListFiles(context.Background(), "videos", objects.ListOptions{})
		assert.ErrorIs(t, err, objects.ErrBackend)
	})
}

func TestGetFileURL(t *testing.T) {
	t.Run("DefaultExpiry", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "a.mp4", mock.Anything).Return(minio.ObjectInfo{Key: "a.mp4"}, nil)
		client.On("PresignedGetObject", mock.Anything, "videos", "a.mp4", 900*time.Second, mock.Anything).
			Return(presignedURL(t, "videos", "a.mp4"), nil)

		before := time.Now()
		res, err := svc.GetFileURL(context.Background(), "videos", "a.mp4", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(900), res.ExpiresIn)
		assert.WithinDuration(t, before.Add(900*time.Second), res.ExpiresAt, 5*time.Second)
		assert.Contains(t, res.URL, "videos/a.mp4")
	})

	t.Run("ClampedExpiry", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "a.mp4", mock.Anything).Return(minio.ObjectInfo{Key: "a.mp4"}, nil)
		client.On("PresignedGetObject", mock.Anything, "videos", "a.mp4", objects.MaxPresignExpiry, mock.Anything).
			Return(presignedURL(t, "videos", "a.mp4"), nil)

		res, err := svc.GetFileURL(context.Background(), "videos", "a.mp4", 30*24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(objects.MaxPresignExpiry/time.Second), res.ExpiresIn)
	})

	t.Run("MissingObject", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "gone.mp4", mock.Anything).Return(minio.ObjectInfo{}, noSuchKey())

		_, err := svc.GetFileURL(context.Background(), "videos", "gone.mp4", time.Minute)
		assert.ErrorIs(t, err, objects.ErrObjectNotFound)
		client.AssertNotCalled(t, "PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteFile(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "a.mp4", mock.Anything).Return(minio.ObjectInfo{Key: "a.mp4"}, nil)
		client.On("RemoveObject", mock.Anything, "videos", "a.mp4", mock.Anything).Return(nil)

		res, err := svc.DeleteFile(context.Background(), "videos", "a.mp4")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.False(t, res.DeletedAt.IsZero())
		client.AssertNumberOfCalls(t, "RemoveObject", 1)
	})

	t.Run("MissingObjectSkipsDelete", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "gone.mp4", mock.Anything).Return(minio.ObjectInfo{}, noSuchKey())

		res, err := svc.DeleteFile(context.Background(), "videos", "gone.mp4")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, objects.ErrObjectNotFound)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)

		_, err := svc.DeleteFile(context.Background(), "videos", "../etc passwd")
		assert.ErrorIs(t, err, objects.ErrInvalidKey)
		assert.Empty(t, client.Calls)
	})
}

func TestStatFile(t *testing.T) {
	t.Run("MissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "nope", "a.mp4", mock.Anything).Return(minio.ObjectInfo{}, noSuchBucket())

		_, err := svc.StatFile(context.Background(), "nope", "a.mp4")
		assert.ErrorIs(t, err, objects.ErrBucketNotFound)
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("StatObject", mock.Anything, "videos", "a.mp4", mock.Anything).Return(minio.ObjectInfo{}, connRefused())

		_, err := svc.StatFile(context.Background(), "videos", "a.mp4")
		assert.ErrorIs(t, err, objects.ErrBackendUnavailable)
	})
}

func TestCheckHealth(t *testing.T) {
	errChan := func(err error) <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: err}
		close(ch)
		return ch
	}

	tests := []struct {
		name    string
		result  <-chan minio.ObjectInfo
		healthy bool
	}{
		{"Reachable", objectChan("x"), true},
		{"EmptyBucket", objectChan(), true},
		{"MissingBucketIsReachable", errChan(noSuchBucket()), true},
		{"ConnectionRefused", errChan(connRefused()), false},
		{"AccessDenied", errChan(minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			svc := newService(client)
			client.On("ListObjects", mock.Anything, "shared-assets", mock.Anything).Return(tt.result)

			status := svc.CheckHealth(context.Background())
			assert.Equal(t, tt.healthy, status.Healthy)
			assert.False(t, status.Timestamp.IsZero())
			if tt.healthy {
				assert.Empty(t, status.Error)
			} else {
				assert.NotEmpty(t, status.Error)
			}
		})
	}

	t.Run("ConnectionRefusedIsBackendUnavailable", func(t *testing.T) {
		client := new(mocks.Client)
		svc := newService(client)
		client.On("ListObjects", mock.Anything, "shared-assets", mock.Anything).Return(errChan(connRefused()))

		status := svc.CheckHealth(context.Background())
		assert.Contains(t, status.Error, string(objects.KindBackendUnavailable))
	})

	t.Run("NoHealthBucketListsBuckets", func(t *testing.T) {
		client := new(mocks.Client)
		svc := objects.NewService(client, storage.Config{}, zap.NewNop())
		client.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{{Name: "videos"}}, nil)

		status := svc.CheckHealth(context.Background())
		assert.True(t, status.Healthy)
		client.AssertNumberOfCalls(t, "ListBuckets", 1)
	})
}

func TestReadFile(t *testing.T) {
	client := new(mocks.Client)
	svc := newService(client)
	client.On("StatObject", mock.Anything, "shared-assets", "shared-assets/original/a.png", mock.Anything).
		Return(minio.ObjectInfo{Key: "shared-assets/original/a.png"}, nil)
	client.On("GetObject", mock.Anything, "shared-assets", "shared-assets/original/a.png", mock.Anything).
		Return(io.NopCloser(strings.NewReader("png-bytes")), nil)

	data, err := svc.ReadFile(context.Background(), "shared-assets", "shared-assets/original/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	client.On("StatObject", mock.Anything, "shared-assets", "missing.png", mock.Anything).Return(minio.ObjectInfo{}, noSuchKey())
	_, err = svc.ReadFile(context.Background(), "shared-assets", "missing.png")
	assert.ErrorIs(t, err, objects.ErrObjectNotFound)
}
