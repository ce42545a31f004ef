package gateway

import (
	"github.com/gofiber/fiber/v2"
)

// Feature wires the gateway into the feature loader.
type Feature struct {
	handler *HTTPHandler
}

// NewFeature creates the gateway feature.
func NewFeature(h *Handler) *Feature {
	return &Feature{handler: NewHTTPHandler(h)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "gateway"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
