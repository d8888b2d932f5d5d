package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/playback-gateway/internal/domain"
)

var (
	keyOnce    sync.Once
	sessionKey *rsa.PrivateKey
	serviceKey *rsa.PrivateKey
)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	keyOnce.Do(func() {
		var err error
		if sessionKey, err = rsa.GenerateKey(rand.Reader, 2048); err != nil {
			panic(err)
		}
		if serviceKey, err = rsa.GenerateKey(rand.Reader, 2048); err != nil {
			panic(err)
		}
	})
	return sessionKey, serviceKey
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	key, _ := testKeys(t)
	tm := NewTokenManager(key, &key.PublicKey, time.Hour)

	identity := domain.Identity{ID: "u-1", Name: "Asha", Email: "asha@example.com"}
	token, exp, err := tm.Issue(identity)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %s", exp)
	}

	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != identity {
		t.Fatalf("identity changed in transit: got %+v want %+v", got, identity)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	key, otherKey := testKeys(t)

	issuer := NewTokenManager(otherKey, nil, time.Hour)
	token, _, err := issuer.Issue(domain.Identity{ID: "u-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifier := NewTokenManager(nil, &key.PublicKey, time.Hour)
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	key, _ := testKeys(t)

	issuer := NewTokenManager(key, &key.PublicKey, -time.Minute)
	token, _, err := issuer.Issue(domain.Identity{ID: "u-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	key, _ := testKeys(t)
	tm := NewTokenManager(nil, &key.PublicKey, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := tm.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}
