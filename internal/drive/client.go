package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spec-kit/playback-gateway/internal/config"
	apperrors "github.com/spec-kit/playback-gateway/pkg/util"
)

const maxErrorBodyBytes = 4 << 10

// Client talks to the upstream drive (storage) service. Listing calls
// act on behalf of the end user and forward the caller's own bearer
// credential; download calls act as the gateway itself and present the
// long-lived service token.
type Client struct {
	baseURL      string
	serviceToken string
	// listing uses a bounded-timeout client; downloads must not carry a
	// total-request timeout or long playback sessions would be cut off.
	apiClient    *http.Client
	streamClient *http.Client
}

// NewClient constructs a drive client. serviceToken is the credential
// presented on download requests.
func NewClient(cfg config.DriveConfig, serviceToken string) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		serviceToken: serviceToken,
		apiClient:    &http.Client{Timeout: cfg.RequestTimeout()},
		streamClient: &http.Client{},
	}
}

// Listing is the drive's file-listing response, decoded loosely so
// unknown fields survive the round trip back to the client.
type Listing struct {
	Files []map[string]any `json:"files"`
}

// ListFiles proxies the drive's listing endpoint, forwarding the query
// string and the caller's Authorization header verbatim. Non-success
// drive statuses are mirrored via UpstreamError.
func (c *Client) ListFiles(ctx context.Context, authorization, rawQuery string) (*Listing, error) {
	url := c.baseURL + "/api/files"
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, apperrors.NewUpstreamError(resp.StatusCode, string(body))
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode drive listing: %w", err)
	}
	return &listing, nil
}

// OpenDownload opens the drive's download endpoint for the file,
// presenting the service token. A non-empty rangeHeader is copied onto
// the upstream request verbatim; range semantics are never interpreted
// here. The caller owns resp.Body.
func (c *Client) OpenDownload(ctx context.Context, fileID, rangeHeader string) (*http.Response, error) {
	url := fmt.Sprintf("%s/api/files/%s/download", c.baseURL, fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable(err)
	}
	return resp, nil
}

// ThumbnailURL points clients at the drive's thumbnail endpoint for a
// file.
func (c *Client) ThumbnailURL(fileID string) string {
	return fmt.Sprintf("%s/api/files/%s/thumbnail", c.baseURL, fileID)
}
