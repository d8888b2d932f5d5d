package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/playback-gateway/internal/auth"
	"github.com/spec-kit/playback-gateway/internal/domain"
)

type memoryUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = "u-" + strconv.Itoa(r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tm := auth.NewTokenManager(key, &key.PublicKey, 7*24*time.Hour)
	return NewAuthService(newMemoryUserRepo(), tm, bcrypt.MinCost), tm
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc, tm := newTestAuthService(t)

	user, token, exp, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user id assigned")
	}
	if remaining := time.Until(exp); remaining < 6*24*time.Hour {
		t.Fatalf("expected roughly a week of validity, got %s", remaining)
	}

	identity, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity != user.Identity() {
		t.Fatalf("token identity %+v does not match user %+v", identity, user.Identity())
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, _, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, _, err := svc.Register(context.Background(), "Another", "asha@example.com", "other")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, _, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, _, err := svc.Login(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if token != "" {
		t.Fatalf("no token must be issued on failure, got %q", token)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, tm := newTestAuthService(t)

	registered, _, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, _, err := svc.Login(context.Background(), "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
	if _, err := tm.Verify(token); err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
}
