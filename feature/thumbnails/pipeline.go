package thumbnails

import (
	"context"
	"path"
	"time"

	"storage-gateway/core/logger"
	"storage-gateway/feature/objects"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Rendition metadata written for every generated thumbnail.
const (
	SystemUploader = "system"
	SharedScope    = "shared"
	ContentType    = "image/jpeg"
)

// Uploader stores a rendition. *objects.Service satisfies it.
type Uploader interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string, meta objects.UploadMetadata) (*objects.UploadResult, error)
}

// Pipeline generates derived JPEG renditions of uploaded images.
type Pipeline struct {
	uploader Uploader
	resizer  Resizer
	specs    []Spec
	small    string
	quality  int
	retries  uint64
	delay    time.Duration
	logger   *zap.Logger
}

// NewPipeline parses the configured sizes and builds a pipeline.
// The resizer is expected to come from DetectResizer.
func NewPipeline(uploader Uploader, resizer Resizer, cfg Config, logger *zap.Logger) (*Pipeline, error) {
	specs, err := ParseSpecs(cfg.Sizes)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		uploader: uploader,
		resizer:  resizer,
		specs:    specs,
		small:    smallest(specs, cfg.SmallVariant),
		quality:  cfg.Quality,
		retries:  uint64(max(cfg.Retries, 0)),
		delay:    time.Duration(max(cfg.RetryDelayMillis, 0)) * time.Millisecond,
		logger:   logger,
	}
	if p.quality <= 0 {
		p.quality = DefaultQuality
	}
	return p, nil
}

// Specs returns the configured renditions.
func (p *Pipeline) Specs() []Spec {
	return p.specs
}

// Available reports whether the image engine is loaded.
func (p *Pipeline) Available() bool {
	return p.resizer.Available()
}

// Generate renders and uploads every configured size independently and returns the URL
// of the small rendition. It never fails: a missing engine or a size that exhausts its
// retries is logged and skipped, and ok is false when no small URL was produced.
func (p *Pipeline) Generate(ctx context.Context, bucket, originalPath string, original []byte) (url string, ok bool) {
	start := time.Now()
	l := logger.ForObject(p.logger, "thumbnails", bucket, originalPath)

	if !p.resizer.Available() {
		l.Warn("Image engine unavailable, skipping thumbnails", zap.Error(objects.ErrThumbnailSkipped))
		return "", false
	}

	generated := 0
	for _, spec := range p.specs {
		res, err := p.generateOne(ctx, l, bucket, originalPath, original, spec)
		if err != nil {
			l.Error("Thumbnail generation failed",
				zap.String("size", spec.Name),
				zap.Error(&objects.Error{Kind: objects.KindThumbnailSkipped, Op: "thumbnails", Bucket: bucket, Key: originalPath, Err: err}))
			continue
		}
		generated++
		if spec.Name == p.small {
			url = res.URL
		}
	}

	l.Info("Thumbnails generated",
		zap.Int("generated", generated),
		zap.Int("configured", len(p.specs)),
		logger.Elapsed(start))
	return url, url != ""
}

func (p *Pipeline) generateOne(ctx context.Context, l *zap.Logger, bucket, originalPath string, original []byte, spec Spec) (*objects.UploadResult, error) {
	key, err := Path(originalPath, spec.Width, spec.Height)
	if err != nil {
		return nil, err
	}

	meta := objects.UploadMetadata{
		UploadedBy:       SystemUploader,
		EntityScope:      SharedScope,
		OriginalFilename: path.Base(originalPath),
	}

	var res *objects.UploadResult
	attempt := func() error {
		data, err := p.resizer.Resize(original, spec.Width, spec.Height, p.quality)
		if err != nil {
			return err
		}
		r, err := p.uploader.UploadFile(ctx, bucket, key, data, ContentType, meta)
		if err != nil {
			if objects.IsValidation(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		res = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.delay), p.retries), ctx)
	notify := func(err error, wait time.Duration) {
		l.Debug("Retrying thumbnail", zap.String("size", spec.Name), zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(attempt, b, notify); err != nil {
		return nil, err
	}
	return res, nil
}

// smallest returns name when it is configured, otherwise the spec with the smallest area.
func smallest(specs []Spec, name string) string {
	best := specs[0]
	for _, s := range specs {
		if s.Name == name {
			return name
		}
		if s.Width*s.Height < best.Width*best.Height {
			best = s
		}
	}
	return best.Name
}
