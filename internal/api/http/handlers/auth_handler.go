package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/api/dto"
	"github.com/spec-kit/playback-gateway/internal/auth"
	"github.com/spec-kit/playback-gateway/internal/domain"
	"github.com/spec-kit/playback-gateway/internal/service"
)

// AuthHandler exposes registration, login and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	user, token, _, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    authUser(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return err
	}

	return c.JSON(dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    authUser(user),
	})
}

// Me handles GET /api/auth/me for authenticated callers.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(fiber.Map{
		"user": dto.AuthUser{ID: identity.ID, Name: identity.Name, Email: identity.Email},
	})
}

func authUser(user *domain.User) dto.AuthUser {
	return dto.AuthUser{ID: user.ID, Name: user.Name, Email: user.Email}
}
