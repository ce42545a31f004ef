package gateway_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"storage-gateway/core/middleware/rayid"
	"storage-gateway/feature/gateway"
	"storage-gateway/feature/ledger"
	"storage-gateway/feature/objects"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string, meta objects.UploadMetadata) (*objects.UploadResult, error) {
	args := m.Called(ctx, bucket, key, data, contentType, meta)
	res, _ := args.Get(0).(*objects.UploadResult)
	return res, args.Error(1)
}

func (m *mockStore) ListFiles(ctx context.Context, bucket string, opts objects.ListOptions) (*objects.ListResult, error) {
	args := m.Called(ctx, bucket, opts)
	res, _ := args.Get(0).(*objects.ListResult)
	return res, args.Error(1)
}

func (m *mockStore) GetFileURL(ctx context.Context, bucket, key string, expiry time.Duration) (*objects.FileURL, error) {
	args := m.Called(ctx, bucket, key, expiry)
	res, _ := args.Get(0).(*objects.FileURL)
	return res, args.Error(1)
}

func (m *mockStore) DeleteFile(ctx context.Context, bucket, key string) (*objects.DeleteResult, error) {
	args := m.Called(ctx, bucket, key)
	res, _ := args.Get(0).(*objects.DeleteResult)
	return res, args.Error(1)
}

func (m *mockStore) StatFile(ctx context.Context, bucket, key string) (*objects.StorageObject, error) {
	args := m.Called(ctx, bucket, key)
	res, _ := args.Get(0).(*objects.StorageObject)
	return res, args.Error(1)
}

func (m *mockStore) CheckHealth(ctx context.Context) objects.HealthStatus {
	return m.Called(ctx).Get(0).(objects.HealthStatus)
}

type fakeThumbnailer struct {
	calls       int
	unavailable bool
}

func (f *fakeThumbnailer) Available() bool { return !f.unavailable }

func (f *fakeThumbnailer) Generate(_ context.Context, bucket, originalPath string, _ []byte) (string, bool) {
	f.calls++
	return "https://cdn.local/" + bucket + "/thumb.jpg", true
}

type fakeRecorder struct {
	entries []ledger.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e ledger.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

var testConfig = gateway.Config{
	MaxFileSizeBytes:    1024,
	AllowedContentTypes: "image/*, text/plain",
}

func newHandler(store gateway.Store, opts ...gateway.Option) *gateway.Handler {
	return gateway.NewHandler(store, testConfig, zap.NewNop(), opts...)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDispatch_Upload(t *testing.T) {
	store := new(mockStore)
	cfg := testConfig
	cfg.MaxFileSizeBytes = 4096
	h := gateway.NewHandler(store, cfg, zap.NewNop())
	payload := make([]byte, 1025)

	store.On("UploadFile", mock.Anything, "assets", "docs/readme.txt", payload, "text/plain", objects.UploadMetadata{UploadedBy: "u1"}).
		Return(&objects.UploadResult{Key: "docs/readme.txt", ChecksumMD5: "abc"}, nil)

	resp := h.Dispatch(context.Background(), gateway.OpUpload, gateway.Params{
		"bucket":      "assets",
		"key":         "docs/readme.txt",
		"contentType": "text/plain",
		"uploadedBy":  "u1",
		"data":        base64.StdEncoding.EncodeToString(payload),
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, 2, resp.Metrics.TokensUsed)
	out, ok := resp.Data.(gateway.UploadResponse)
	require.True(t, ok)
	assert.Equal(t, "abc", out.ChecksumMD5)
	assert.Empty(t, out.ThumbnailURL)
}

func TestDispatch_AdmissionControl(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		params gateway.Params
		code   objects.Kind
	}{
		{"Oversize", gateway.OpUpload, gateway.Params{"bucket": "assets", "key": "a.png", "contentType": "image/png", "data": b64(string(make([]byte, 1025)))}, objects.KindInvalidPayload},
		{"ContentTypeNotAllowed", gateway.OpUpload, gateway.Params{"bucket": "assets", "key": "a.exe", "contentType": "application/x-msdownload", "data": b64("MZ")}, objects.KindUnsupportedContentType},
		{"BadBase64", gateway.OpUpload, gateway.Params{"bucket": "assets", "key": "a.png", "contentType": "image/png", "data": "%%%"}, objects.KindInvalidPayload},
		{"MissingData", gateway.OpUpload, gateway.Params{"bucket": "assets", "key": "a.png", "contentType": "image/png"}, objects.KindInvalidPayload},
		{"MissingContentType", gateway.OpUpload, gateway.Params{"bucket": "assets", "key": "a.png", "data": b64("x")}, objects.KindInvalidPayload},
		{"BadBucket", gateway.OpStat, gateway.Params{"bucket": "Bad_Bucket", "key": "a.png"}, objects.KindInvalidPayload},
		{"MissingKey", gateway.OpDelete, gateway.Params{"bucket": "assets"}, objects.KindInvalidPayload},
		{"BadLimit", gateway.OpList, gateway.Params{"bucket": "assets", "limit": "ten"}, objects.KindInvalidPayload},
		{"NegativeExpiry", gateway.OpGetURL, gateway.Params{"bucket": "assets", "key": "a", "expiresIn": -5}, objects.KindInvalidPayload},
		{"UnknownOperation", "rename", gateway.Params{"bucket": "assets"}, objects.KindInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			resp := newHandler(store).Dispatch(context.Background(), tt.op, tt.params)

			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.code), resp.Error.Code)
			assert.Zero(t, resp.Metrics.TokensUsed)
			assert.Empty(t, store.Calls)
		})
	}
}

func TestDispatch_Thumbnails(t *testing.T) {
	store := new(mockStore)
	thumbs := &fakeThumbnailer{}
	h := newHandler(store, gateway.WithThumbnails(thumbs))
	store.On("UploadFile", mock.Anything, "assets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&objects.UploadResult{}, nil)

	resp := h.Dispatch(context.Background(), gateway.OpUpload, gateway.Params{
		"bucket": "assets", "key": "assets/original/a.png", "contentType": "image/png", "data": b64("png"), "thumbnails": true,
	})
	require.True(t, resp.Success)
	assert.Equal(t, "https://cdn.local/assets/thumb.jpg", resp.Data.(gateway.UploadResponse).ThumbnailURL)

	resp = h.Dispatch(context.Background(), gateway.OpUpload, gateway.Params{
		"bucket": "assets", "key": "notes.txt", "contentType": "text/plain", "data": b64("txt"), "thumbnails": true,
	})
	require.True(t, resp.Success)
	assert.Equal(t, 1, thumbs.calls)
}

func TestDispatch_List(t *testing.T) {
	store := new(mockStore)
	h := newHandler(store)
	store.On("ListFiles", mock.Anything, "videos", objects.ListOptions{Prefix: "uploads/", Limit: 2, Marker: "uploads/c"}).
		Return(&objects.ListResult{Files: make([]objects.StorageObject, 2), Count: 2, Truncated: true, NextMarker: "uploads/e"}, nil)

	resp := h.Dispatch(context.Background(), gateway.OpList, gateway.Params{
		"bucket": "videos", "prefix": "uploads/", "limit": float64(2), "marker": "uploads/c",
	})
	require.True(t, resp.Success)
	assert.Equal(t, 2, resp.Metrics.TokensUsed)
	assert.True(t, resp.Data.(*objects.ListResult).Truncated)
}

func TestDispatch_GetURLAndDelete(t *testing.T) {
	store := new(mockStore)
	h := newHandler(store)
	store.On("GetFileURL", mock.Anything, "videos", "a.mp4", 60*time.Second).
		Return(&objects.FileURL{URL: "http://signed", ExpiresIn: 60}, nil)
	store.On("DeleteFile", mock.Anything, "videos", "gone.mp4").
		Return(nil, &objects.Error{Kind: objects.KindObjectNotFound, Op: "delete", Bucket: "videos", Key: "gone.mp4"})

	resp := h.Dispatch(context.Background(), gateway.OpGetURL, gateway.Params{"bucket": "videos", "key": "a.mp4", "expiresIn": "60"})
	require.True(t, resp.Success)
	assert.Equal(t, "http://signed", resp.Data.(*objects.FileURL).URL)

	resp = h.Dispatch(context.Background(), gateway.OpDelete, gateway.Params{"bucket": "videos", "key": "gone.mp4"})
	assert.False(t, resp.Success)
	assert.Equal(t, "OBJECT_NOT_FOUND", resp.Error.Code)
	assert.Nil(t, resp.Data)
}

func TestDispatch_GetURLClampsHugeExpiry(t *testing.T) {
	store := new(mockStore)
	h := newHandler(store)
	store.On("GetFileURL", mock.Anything, "videos", "a.mp4", objects.MaxPresignExpiry).
		Return(&objects.FileURL{URL: "http://signed", ExpiresIn: int64(objects.MaxPresignExpiry / time.Second)}, nil)

	resp := h.Dispatch(context.Background(), gateway.OpGetURL, gateway.Params{
		"bucket":    "videos",
		"key":       "a.mp4",
		"expiresIn": int64(10_000_000_000),
	})
	require.True(t, resp.Success)
	store.AssertCalled(t, "GetFileURL", mock.Anything, "videos", "a.mp4", objects.MaxPresignExpiry)
}

func TestDispatch_Health(t *testing.T) {
	store := new(mockStore)
	h := newHandler(store)
	store.On("CheckHealth", mock.Anything).Return(objects.HealthStatus{Healthy: false, Error: "connection refused"}).Once()
	store.On("CheckHealth", mock.Anything).Return(objects.HealthStatus{Healthy: true}).Once()

	resp := h.Dispatch(context.Background(), gateway.OpHealth, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "BACKEND_UNAVAILABLE", resp.Error.Code)
	assert.False(t, resp.Data.(objects.HealthStatus).Healthy)

	resp = h.Dispatch(context.Background(), gateway.OpHealth, nil)
	assert.True(t, resp.Success)
}

func TestDispatch_AuditAndMetrics(t *testing.T) {
	store := new(mockStore)
	rec := &fakeRecorder{err: errors.New("db down")}
	reg := prometheus.NewRegistry()
	observer, err := gateway.NewPrometheusObserver("test_gateway", reg)
	require.NoError(t, err)

	h := newHandler(store, gateway.WithRecorder(rec), gateway.WithObserver(observer))
	store.On("StatFile", mock.Anything, "videos", "a.mp4").Return(&objects.StorageObject{Key: "a.mp4", SizeBytes: 77}, nil)
	store.On("StatFile", mock.Anything, "videos", "b.mp4").Return(nil, objects.ErrBackendUnavailable)

	ctx := rayid.NewContext(context.Background(), "ray-1")
	assert.True(t, h.Dispatch(ctx, gateway.OpStat, gateway.Params{"bucket": "videos", "key": "a.mp4"}).Success)
	assert.False(t, h.Dispatch(ctx, gateway.OpStat, gateway.Params{"bucket": "videos", "key": "b.mp4"}).Success)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, ledger.Entry{RayID: "ray-1", Operation: "stat", Bucket: "videos", Key: "a.mp4", Success: true, SizeBytes: 77, DurationMs: rec.entries[0].DurationMs}, rec.entries[0])
	assert.Equal(t, "BACKEND_UNAVAILABLE", rec.entries[1].ErrorCode)

	// A second observer on the same registry reuses the collectors.
	again, err := gateway.NewPrometheusObserver("test_gateway", reg)
	require.NoError(t, err)
	again.RecordOperation("stat", time.Millisecond, 0, nil)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	var nilObserver *gateway.PrometheusObserver
	assert.NotPanics(t, func() { nilObserver.RecordOperation("stat", time.Second, 1, nil) })
}

func TestPrometheusObserver_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := gateway.NewPrometheusObserver("counts", reg)
	require.NoError(t, err)

	o.RecordOperation("upload", time.Millisecond, 3, nil)
	o.RecordOperation("upload", time.Millisecond, 0, errors.New("x"))

	tokens, err := testutil.GatherAndCount(reg, "counts_tokens_used_total")
	require.NoError(t, err)
	assert.Equal(t, 1, tokens)

	operations, err := testutil.GatherAndCount(reg, "counts_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, operations)
}

func TestCapabilities(t *testing.T) {
	caps := newHandler(new(mockStore), gateway.WithThumbnails(&fakeThumbnailer{})).Capabilities()

	require.Len(t, caps.Operations, 6)
	assert.Equal(t, gateway.OpUpload, caps.Operations[0].Operation)
	assert.Contains(t, caps.Operations[0].Optional, "thumbnails")
	assert.Equal(t, int64(1024), caps.MaxFileSizeBytes)
	assert.Equal(t, []string{"image/*", "text/plain"}, caps.AllowedContentTypes)
	assert.True(t, caps.Thumbnails)
}

func TestCapabilities_ThumbnailEngineUnavailable(t *testing.T) {
	caps := newHandler(new(mockStore), gateway.WithThumbnails(&fakeThumbnailer{unavailable: true})).Capabilities()

	assert.NotContains(t, caps.Operations[0].Optional, "thumbnails")
	assert.False(t, caps.Thumbnails)
}
