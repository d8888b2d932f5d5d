package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/service"
)

// LibraryHandler exposes the file listing and video metadata endpoints.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler constructs the handler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// ListFiles handles GET /api/files. The query string and the caller's
// bearer credential are forwarded to the drive service untouched.
func (h *LibraryHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.library.ListVideos(
		c.Context(),
		c.Get(fiber.HeaderAuthorization),
		string(c.Request().URI().QueryString()),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"files": files})
}

// GetVideo handles GET /api/video/:id.
func (h *LibraryHandler) GetVideo(c *fiber.Ctx) error {
	video, err := h.library.ResolveVideo(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(video)
}
