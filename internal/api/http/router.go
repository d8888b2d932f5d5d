package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/api/http/handlers"
	"github.com/spec-kit/playback-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Library      *handlers.LibraryHandler
	Stream       *handlers.StreamHandler
	Search       *handlers.SearchHandler
	SessionGuard *auth.SessionGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.SessionGuard.Handle, cfg.Auth.Me)

	api.Get("/files", cfg.SessionGuard.Handle, cfg.Library.ListFiles)
	api.Get("/video/:id", cfg.Library.GetVideo)
	api.Get("/stream/:id", cfg.Stream.Stream)
	api.Get("/search", cfg.SessionGuard.Handle, cfg.Search.Search)
}
