package gateway

import (
	"storage-gateway/core/logger"
	"storage-gateway/feature/objects"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HTTPHandler serves the gateway over fiber.
type HTTPHandler struct {
	gateway *Handler
}

// NewHTTPHandler creates the HTTP transport for h.
func NewHTTPHandler(h *Handler) *HTTPHandler {
	return &HTTPHandler{gateway: h}
}

// RegisterRoutes registers the gateway routes.
func (h *HTTPHandler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/gateway")
	group.Get("/capabilities", h.HandleCapabilities)
	group.Post("/:operation", h.HandleDispatch)
	app.Get("/health", h.HandleHealth)
}

// HandleDispatch decodes a JSON parameter bag and dispatches :operation.
func (h *HTTPHandler) HandleDispatch(c *fiber.Ctx) error {
	params := Params{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			logger.WithRayID(h.gateway.logger, c).Warn("Invalid request body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(&Response{
				Error: &ErrorBody{Code: string(objects.KindInvalidPayload), Message: "body must be a JSON object"},
			})
		}
	}

	resp := h.gateway.Dispatch(c.UserContext(), c.Params("operation"), params)
	return c.Status(StatusCode(resp)).JSON(resp)
}

// HandleCapabilities lists the supported operations.
func (h *HTTPHandler) HandleCapabilities(c *fiber.Ctx) error {
	return c.JSON(h.gateway.Capabilities())
}

// HandleHealth reports backend health, 503 when unreachable.
func (h *HTTPHandler) HandleHealth(c *fiber.Ctx) error {
	resp := h.gateway.Dispatch(c.UserContext(), OpHealth, nil)
	return c.Status(StatusCode(resp)).JSON(resp.Data)
}

// StatusCode maps a response to its HTTP status.
func StatusCode(resp *Response) int {
	if resp.Error == nil {
		return fiber.StatusOK
	}
	switch objects.Kind(resp.Error.Code) {
	case objects.KindInvalidKey, objects.KindInvalidPayload:
		return fiber.StatusBadRequest
	case objects.KindUnsupportedContentType:
		return fiber.StatusUnsupportedMediaType
	case objects.KindBucketNotFound, objects.KindObjectNotFound:
		return fiber.StatusNotFound
	case objects.KindBackendUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
