package thumbnails

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"storage-gateway/feature/objects"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// DefaultQuality is the JPEG quality used when the configuration leaves it unset.
const DefaultQuality = 80

// Resizer is the image engine capability. Implementations report availability once;
// the pipeline never retries loading an unavailable engine.
type Resizer interface {
	Available() bool
	// Resize fits src inside width x height without enlarging it and encodes the
	// result as JPEG.
	Resize(src []byte, width, height, quality int) ([]byte, error)
}

type imagingResizer struct{}

// NewImagingResizer returns a Resizer backed by disintegration/imaging.
func NewImagingResizer() Resizer {
	return imagingResizer{}
}

func (imagingResizer) Available() bool { return true }

func (imagingResizer) Resize(src []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Fit returns a clone when the source already fits, so it never enlarges.
	var out image.Image = imaging.Fit(img, width, height, imaging.Lanczos)

	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

type unavailableResizer struct {
	reason error
}

// Unavailable returns a Resizer that reports the engine as missing.
func Unavailable(reason error) Resizer {
	return unavailableResizer{reason: reason}
}

func (unavailableResizer) Available() bool { return false }

func (u unavailableResizer) Resize([]byte, int, int, int) ([]byte, error) {
	return nil, &objects.Error{Kind: objects.KindThumbnailSkipped, Op: "thumbnails", Err: u.reason}
}

// DetectResizer picks the image engine at start-up. It runs one probe encode and falls
// back to the unavailable variant if the engine is disabled or the probe fails.
func DetectResizer(cfg Config, logger *zap.Logger) Resizer {
	if !cfg.Enabled {
		logger.Info("Thumbnail generation disabled")
		return Unavailable(errors.New("thumbnail generation disabled"))
	}

	r := NewImagingResizer()
	if err := probe(r); err != nil {
		logger.Warn("Image engine probe failed, thumbnails disabled", zap.Error(err))
		return Unavailable(err)
	}
	return r
}

func probe(r Resizer) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(2, 2, color.White), imaging.PNG); err != nil {
		return err
	}
	_, err := r.Resize(buf.Bytes(), 1, 1, DefaultQuality)
	return err
}
