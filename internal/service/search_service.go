package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/playback-gateway/internal/config"
	apperrors "github.com/spec-kit/playback-gateway/pkg/util"
)

const searchCacheKeyPrefix = "search:youtube:"

// SearchService proxies video search queries to the YouTube Data API.
// Responses are cached in Redis so repeated queries within the TTL do
// not spend API quota. Only search metadata is cached, never video
// content.
type SearchService struct {
	cfg    config.SearchConfig
	client *http.Client
	cache  *redis.Client
	logger *zap.Logger
}

// NewSearchService builds the service. cache may be nil, in which case
// every query goes to the API.
func NewSearchService(cfg config.SearchConfig, cache *redis.Client, logger *zap.Logger) *SearchService {
	return &SearchService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		logger: logger,
	}
}

// Search runs a video search and returns the raw API response body.
func (s *SearchService) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query is required", nil)
	}
	if s.cfg.YouTubeAPIKey == "" {
		return nil, apperrors.NewDomainError("SEARCH_DISABLED", "video search is not configured", http.StatusNotImplemented, nil)
	}

	cacheKey := searchCacheKeyPrefix + query
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			s.logger.Warn("search cache read failed", zap.Error(err))
		}
	}

	endpoint := fmt.Sprintf(
		"%s/search?part=snippet&q=%s&maxResults=10&type=video&key=%s",
		s.cfg.YouTubeAPIBaseURL,
		url.QueryEscape(query),
		url.QueryEscape(s.cfg.YouTubeAPIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(resp.StatusCode, "video search failed")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, body, s.cfg.CacheTTL()).Err(); err != nil {
			s.logger.Warn("search cache write failed", zap.Error(err))
		}
	}
	return body, nil
}
