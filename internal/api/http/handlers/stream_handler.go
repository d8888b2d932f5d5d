package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/stream"
)

// StreamHandler exposes the playback proxy endpoint.
type StreamHandler struct {
	engine *stream.Engine
}

// NewStreamHandler constructs the handler.
func NewStreamHandler(engine *stream.Engine) *StreamHandler {
	return &StreamHandler{engine: engine}
}

// Stream handles GET /api/stream/:id.
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	return h.engine.Stream(c, c.Params("id"))
}
