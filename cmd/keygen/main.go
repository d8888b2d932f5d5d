// keygen provisions the gateway's key material: it generates the two
// RSA key pairs (session and service trust domains) and can mint the
// long-lived token the gateway presents to the drive service.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spec-kit/playback-gateway/internal/auth"
	"github.com/spec-kit/playback-gateway/internal/domain"
)

func main() {
	var (
		outDir    = flag.String("out", "keys", "directory to write PEM files into")
		bits      = flag.Int("bits", 2048, "RSA key size")
		mintFor   = flag.String("mint-service-token", "", "mint a service token using the private key at this path and print it")
		ttlDays   = flag.Int("ttl-days", 365, "service token lifetime in days")
		subjectID = flag.String("subject", "playback-gateway", "service token subject")
	)
	flag.Parse()

	if *mintFor != "" {
		if err := mintServiceToken(*mintFor, *subjectID, *ttlDays); err != nil {
			log.Fatalf("mint service token: %v", err)
		}
		return
	}

	if err := generateKeyPairs(*outDir, *bits); err != nil {
		log.Fatalf("generate keys: %v", err)
	}
}

func generateKeyPairs(dir string, bits int) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	for _, name := range []string{"session", "service"} {
		if err := writeKeyPair(dir, name, bits); err != nil {
			return err
		}
		fmt.Printf("wrote %s/%s_{private,public}.pem\n", dir, name)
	}
	return nil
}

func writeKeyPair(dir, name string, bits int) error {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return err
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(filepath.Join(dir, name+"_private.pem"), privatePEM, 0o600); err != nil {
		return err
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	})
	return os.WriteFile(filepath.Join(dir, name+"_public.pem"), publicPEM, 0o644)
}

func mintServiceToken(keyPath, subject string, ttlDays int) error {
	key, err := auth.LoadPrivateKey(keyPath)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenManager(key, nil, time.Duration(ttlDays)*24*time.Hour)
	token, exp, err := tokens.Issue(domain.Identity{ID: subject, Name: subject})
	if err != nil {
		return err
	}
	fmt.Printf("expires: %s\n%s\n", exp.Format(time.RFC3339), token)
	return nil
}
