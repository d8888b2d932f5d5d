package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-gateway/internal/domain"
	apperrors "github.com/spec-kit/playback-gateway/pkg/util"
)

const identityKey = "auth_identity"

// SessionGuard validates bearer tokens and attaches the caller's
// identity to the request.
type SessionGuard struct {
	tokens *TokenManager
}

// NewSessionGuard constructs the middleware.
func NewSessionGuard(tokens *TokenManager) *SessionGuard {
	return &SessionGuard{tokens: tokens}
}

// Handle enforces authentication for protected routes. A missing
// credential is 401; a present but unverifiable one is 403.
func (g *SessionGuard) Handle(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return apperrors.NewUnauthorized("no token provided")
	}

	identity, err := g.tokens.Verify(token)
	if err != nil {
		return apperrors.NewForbidden("invalid token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
