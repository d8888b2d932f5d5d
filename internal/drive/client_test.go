package drive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spec-kit/playback-gateway/internal/config"
	apperrors "github.com/spec-kit/playback-gateway/pkg/util"
)

func testConfig(baseURL string) config.DriveConfig {
	return config.DriveConfig{BaseURL: baseURL, RequestTimeoutSeconds: 5}
}

func TestListFilesForwardsCallerCredentialAndQuery(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"files":[{"id":"f1","type":"video/mp4"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), "svc-token")
	listing, err := client.ListFiles(context.Background(), "Bearer user-token", "type=video")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	// The listing acts on behalf of the end user, never the gateway.
	if gotAuth != "Bearer user-token" {
		t.Fatalf("expected caller credential upstream, got %q", gotAuth)
	}
	if gotQuery != "type=video" {
		t.Fatalf("expected query forwarded, got %q", gotQuery)
	}
	if len(listing.Files) != 1 || listing.Files[0]["id"] != "f1" {
		t.Fatalf("unexpected listing: %+v", listing)
	}
}

func TestListFilesMirrorsUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "listing unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), "svc-token")
	_, err := client.ListFiles(context.Background(), "", "")

	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.HTTPStatus != http.StatusServiceUnavailable || de.Code != "UPSTREAM_ERROR" {
		t.Fatalf("expected mirrored 503 UPSTREAM_ERROR, got %d %s", de.HTTPStatus, de.Code)
	}
}

func TestOpenDownloadUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(testConfig(server.URL), "svc-token")
	_, err := client.OpenDownload(context.Background(), "f1", "")

	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.Code != "UPSTREAM_UNAVAILABLE" || de.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("expected UPSTREAM_UNAVAILABLE 502, got %s %d", de.Code, de.HTTPStatus)
	}
}

func TestOpenDownloadCancellationAbortsUpstreamRead(t *testing.T) {
	handlerDone := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(handlerDone)
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		// Keep the body open until the client goes away.
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(testConfig(server.URL), "svc-token")
	resp, err := client.OpenDownload(ctx, "f1", "bytes=0-")
	if err != nil {
		t.Fatalf("OpenDownload: %v", err)
	}
	defer resp.Body.Close()

	cancel()

	readDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, resp.Body)
		readDone <- err
	}()

	select {
	case err := <-readDone:
		if err == nil {
			t.Fatal("expected read to fail after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("upstream read did not stop after cancellation")
	}

	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream handler never observed the disconnect")
	}
}

func TestOpenDownloadSendsServiceCredential(t *testing.T) {
	var gotAuth, gotRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRange = r.Header.Get("Range")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), "svc-token")
	resp, err := client.OpenDownload(context.Background(), "f1", "bytes=5-9")
	if err != nil {
		t.Fatalf("OpenDownload: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer svc-token" {
		t.Fatalf("expected service credential, got %q", gotAuth)
	}
	if gotRange != "bytes=5-9" {
		t.Fatalf("expected range forwarded, got %q", gotRange)
	}
}
