package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("invalid token")
	mapped := ToDomainError(original)
	if mapped.Code != "FORBIDDEN" || mapped.HTTPStatus != http.StatusForbidden {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("resolve video: %w", NewUpstreamUnavailable(errors.New("dial tcp: refused")))
	mapped := ToDomainError(wrapped)
	if mapped.Code != "UPSTREAM_UNAVAILABLE" || mapped.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for missing rows, got %d", mapped.HTTPStatus)
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestUpstreamErrorMirrorsStatus(t *testing.T) {
	mapped := ToDomainError(NewUpstreamError(http.StatusNotFound, "file not found"))
	if mapped.HTTPStatus != http.StatusNotFound || mapped.Code != "UPSTREAM_ERROR" {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}
