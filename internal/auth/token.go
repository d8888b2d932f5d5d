package auth

import (
	"crypto/rsa"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/playback-gateway/internal/domain"
)

// Verification failure taxonomy. A token that fails to verify yields
// exactly one of these.
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenMalformed        = errors.New("token malformed")
)

// TokenManager issues and verifies RS256 tokens for one trust domain.
// The session manager and the service manager are constructed with
// disjoint key pairs; neither can forge the other's tokens.
type TokenManager struct {
	signingKey      *rsa.PrivateKey
	verificationKey *rsa.PublicKey
	ttl             time.Duration
}

// NewTokenManager builds a manager from explicit key material. Either
// key may be nil when only one direction is needed (the gateway holds
// no verification key for the drive's trust domain, for instance).
func NewTokenManager(signingKey *rsa.PrivateKey, verificationKey *rsa.PublicKey, ttl time.Duration) *TokenManager {
	return &TokenManager{signingKey: signingKey, verificationKey: verificationKey, ttl: ttl}
}

// Claims is the JWT payload carrying an identity.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the identity, expiring after the
// manager's TTL.
func (tm *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	if tm.signingKey == nil {
		return "", time.Time{}, errors.New("no signing key configured")
	}
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(tm.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a token against the verification key and returns the
// embedded identity. Failures map onto the package's error taxonomy.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	if tm.verificationKey == nil {
		return domain.Identity{}, errors.New("no verification key configured")
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.verificationKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, ErrTokenSignatureInvalid
		default:
			return domain.Identity{}, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, ErrTokenMalformed
	}
	return domain.Identity{ID: claims.ID, Name: claims.Name, Email: claims.Email}, nil
}

// TTL reports the lifetime applied to issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
