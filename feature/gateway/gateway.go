package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"storage-gateway/core/logger"
	"storage-gateway/core/middleware/rayid"
	"storage-gateway/feature/ledger"
	"storage-gateway/feature/objects"

	"go.uber.org/zap"
)

// Operation names accepted by Dispatch.
const (
	OpUpload = "upload"
	OpList   = "list"
	OpGetURL = "getUrl"
	OpDelete = "delete"
	OpStat   = "stat"
	OpHealth = "health"
)

// Store is the canonical storage contract the gateway decorates.
// *objects.Service satisfies it.
type Store interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string, meta objects.UploadMetadata) (*objects.UploadResult, error)
	ListFiles(ctx context.Context, bucket string, opts objects.ListOptions) (*objects.ListResult, error)
	GetFileURL(ctx context.Context, bucket, key string, expiry time.Duration) (*objects.FileURL, error)
	DeleteFile(ctx context.Context, bucket, key string) (*objects.DeleteResult, error)
	StatFile(ctx context.Context, bucket, key string) (*objects.StorageObject, error)
	CheckHealth(ctx context.Context) objects.HealthStatus
}

// Thumbnailer generates renditions after an image upload. *thumbnails.Pipeline satisfies it.
type Thumbnailer interface {
	Available() bool
	Generate(ctx context.Context, bucket, originalPath string, original []byte) (string, bool)
}

// Recorder persists an audit entry per call. *ledger.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Response is the envelope returned for every dispatched call.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Metrics Metrics    `json:"metrics"`
}

// ErrorBody carries the error kind and message of a failed call.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metrics are the per-call figures reported to the caller.
type Metrics struct {
	DurationMs int64 `json:"durationMs"`
	TokensUsed int   `json:"tokensUsed"`
}

// UploadResponse is the upload result plus the optional thumbnail URL.
type UploadResponse struct {
	*objects.UploadResult
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Handler exposes the storage operations behind one dispatch entry point and adds
// admission control, metrics and auditing on top of the canonical Store.
type Handler struct {
	store    Store
	cfg      Config
	allowed  []string
	thumbs   Thumbnailer
	recorder Recorder
	observer Observer
	logger   *zap.Logger
}

// Option configures optional collaborators of a Handler.
type Option func(*Handler)

// WithThumbnails enables the "thumbnails" upload parameter.
func WithThumbnails(t Thumbnailer) Option {
	return func(h *Handler) { h.thumbs = t }
}

// WithRecorder audits every call.
func WithRecorder(r Recorder) Option {
	return func(h *Handler) { h.recorder = r }
}

// WithObserver reports metrics for every call.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

// NewHandler creates a gateway handler.
func NewHandler(store Store, cfg Config, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:    store,
		cfg:      cfg,
		allowed:  cfg.allowList(),
		observer: nopObserver{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// call is the outcome of one operation before it is wrapped into a Response.
type call struct {
	bucket string
	key    string
	size   int64
	data   any
	tokens int
}

// Dispatch runs operation op with params. It never returns nil; failures are reported
// in Response.Error with the error kind as code.
func (h *Handler) Dispatch(ctx context.Context, op string, params Params) *Response {
	start := time.Now()
	l := h.logger.With(zap.String("operation", op))
	if rid := rayid.FromContext(ctx); rid != "" {
		l = l.With(zap.String("ray_id", rid))
	}
	l.Debug("Gateway call started")

	c, err := h.run(ctx, op, params)
	duration := time.Since(start)

	resp := &Response{
		Success: err == nil,
		Data:    c.data,
		Metrics: Metrics{DurationMs: duration.Milliseconds()},
	}
	if err == nil {
		resp.Metrics.TokensUsed = c.tokens
	} else {
		resp.Error = &ErrorBody{Code: errorCode(err), Message: err.Error()}
	}

	h.observer.RecordOperation(op, duration, resp.Metrics.TokensUsed, err)
	h.audit(ctx, l, op, c, err, duration)

	fields := []zap.Field{zap.String("bucket", c.bucket), zap.String("key", c.key), logger.Elapsed(start)}
	switch {
	case err == nil:
		l.Info("Gateway call succeeded", fields...)
	case objects.IsValidation(err):
		l.Warn("Gateway call rejected", append(fields, zap.Error(err))...)
	default:
		l.Error("Gateway call failed", append(fields, zap.Error(err))...)
	}
	return resp
}

func (h *Handler) run(ctx context.Context, op string, p Params) (call, error) {
	if op == OpHealth {
		return h.health(ctx)
	}

	c := call{bucket: p.String("bucket"), key: p.String("key")}
	if err := ValidateBucket(c.bucket); err != nil {
		return c, err
	}

	switch op {
	case OpUpload:
		return h.upload(ctx, c, p)
	case OpList:
		return h.list(ctx, c, p)
	case OpGetURL:
		return h.getURL(ctx, c, p)
	case OpDelete:
		if err := requireKey(c); err != nil {
			return c, err
		}
		res, err := h.store.DeleteFile(ctx, c.bucket, c.key)
		return h.single(c, res, err)
	case OpStat:
		if err := requireKey(c); err != nil {
			return c, err
		}
		res, err := h.store.StatFile(ctx, c.bucket, c.key)
		if res != nil {
			c.size = int64(res.SizeBytes)
		}
		return h.single(c, res, err)
	default:
		return c, invalidPayload("unknown operation %q", op)
	}
}

func (h *Handler) upload(ctx context.Context, c call, p Params) (call, error) {
	if err := requireKey(c); err != nil {
		return c, err
	}
	contentType, err := p.Require("contentType")
	if err != nil {
		return c, err
	}
	data, err := p.Data(h.cfg.maxFileSize())
	if err != nil {
		return c, err
	}
	c.size = int64(len(data))
	if err := h.checkUpload(contentType, len(data)); err != nil {
		return c, err
	}

	res, err := h.store.UploadFile(ctx, c.bucket, c.key, data, contentType, objects.UploadMetadata{
		UploadedBy:       p.String("uploadedBy"),
		EntityScope:      p.String("entityScope"),
		OriginalFilename: p.String("originalFilename"),
	})
	if err != nil {
		return c, err
	}

	out := UploadResponse{UploadResult: res}
	if p.Bool("thumbnails") && h.thumbs != nil && strings.HasPrefix(strings.ToLower(contentType), "image/") {
		if u, ok := h.thumbs.Generate(ctx, c.bucket, c.key, data); ok {
			out.ThumbnailURL = u
		}
	}

	c.data = out
	c.tokens = max(int((c.size+1023)/1024), 1)
	return c, nil
}

func (h *Handler) list(ctx context.Context, c call, p Params) (call, error) {
	limit, _, err := p.Int("limit")
	if err != nil {
		return c, err
	}
	if limit < 0 {
		return c, invalidPayload("limit must not be negative")
	}

	res, err := h.store.ListFiles(ctx, c.bucket, objects.ListOptions{
		Prefix: p.String("prefix"),
		Limit:  limit,
		Marker: p.String("marker"),
	})
	if err != nil {
		return c, err
	}
	c.data = res
	c.tokens = max(res.Count, 1)
	return c, nil
}

func (h *Handler) getURL(ctx context.Context, c call, p Params) (call, error) {
	if err := requireKey(c); err != nil {
		return c, err
	}
	seconds, _, err := p.Int("expiresIn")
	if err != nil {
		return c, err
	}
	if seconds < 0 {
		return c, invalidPayload("expiresIn must not be negative")
	}
	// Clamp before converting so huge values cannot overflow time.Duration.
	seconds = min(seconds, int(objects.MaxPresignExpiry/time.Second))
	res, err := h.store.GetFileURL(ctx, c.bucket, c.key, time.Duration(seconds)*time.Second)
	return h.single(c, res, err)
}

func (h *Handler) health(ctx context.Context) (call, error) {
	status := h.store.CheckHealth(ctx)
	c := call{data: status, tokens: 1}
	if !status.Healthy {
		return c, &objects.Error{Kind: objects.KindBackendUnavailable, Op: OpHealth, Message: status.Error}
	}
	return c, nil
}

func (h *Handler) single(c call, res any, err error) (call, error) {
	if err != nil {
		return c, err
	}
	c.data = res
	c.tokens = 1
	return c, nil
}

func (h *Handler) audit(ctx context.Context, l *zap.Logger, op string, c call, err error, duration time.Duration) {
	if h.recorder == nil {
		return
	}
	entry := ledger.Entry{
		RayID:      rayid.FromContext(ctx),
		Operation:  op,
		Bucket:     c.bucket,
		Key:        c.key,
		Success:    err == nil,
		SizeBytes:  c.size,
		DurationMs: duration.Milliseconds(),
	}
	if err != nil {
		entry.ErrorCode = errorCode(err)
	}
	// The audit write must not be lost when the caller disconnects.
	if rerr := h.recorder.Record(context.WithoutCancel(ctx), entry); rerr != nil {
		l.Warn("Audit record failed", zap.Error(rerr))
	}
}

func requireKey(c call) error {
	if c.key == "" {
		return invalidPayload("key is required")
	}
	return nil
}

func errorCode(err error) string {
	if kind := objects.KindOf(err); kind != "" {
		return string(kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return string(objects.KindBackendUnavailable)
	}
	return string(objects.KindBackend)
}
