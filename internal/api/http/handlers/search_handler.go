package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/service"
)

// SearchHandler exposes the third-party video search proxy.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/search?query=...
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	body, err := h.search.Search(c.Context(), c.Query("query"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
