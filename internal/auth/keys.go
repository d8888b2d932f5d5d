package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	jwt "github.com/golang-jwt/jwt/v5"
)

// SessionKeys holds the end-user trust domain's key pair. Loaded once at
// startup and treated as read-only for the process lifetime.
type SessionKeys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadSessionKeys reads the session signing and verification keys from
// PEM files.
func LoadSessionKeys(privatePath, publicPath string) (*SessionKeys, error) {
	private, err := LoadPrivateKey(privatePath)
	if err != nil {
		return nil, err
	}
	public, err := LoadPublicKey(publicPath)
	if err != nil {
		return nil, err
	}
	return &SessionKeys{Private: private, Public: public}, nil
}

// LoadPrivateKey reads an RSA private key from a PEM file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", path, err)
	}
	return key, nil
}

// LoadPublicKey reads an RSA public key from a PEM file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("parse public key %s: %w", path, err)
	}
	return key, nil
}
