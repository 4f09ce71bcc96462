// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries an external web search provider and returns
// ranked results with raw page content.
//
// A Client layers two stages around a provider call: a persistent cache
// (outermost, so hits skip retries entirely) and a fixed-backoff retry.
package websearch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/cache"
	"github.com/namesty/evo.predict/internal/httputil"
	"github.com/namesty/evo.predict/internal/logging"
	"github.com/namesty/evo.predict/pkg/types"
)

// ErrMissingAPIKey is returned when the search provider key is not configured.
var ErrMissingAPIKey = errors.New("search provider API key is missing")

// cacheFunction names the cached call in cache keys and statistics.
const cacheFunction = "websearch.Search"

// Searcher runs a single web search. Tavily implements it; tests supply fakes.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Client is a cached, retrying Searcher.
type Client struct {
	backend    Searcher
	cache      *cache.Store
	apiKey     string
	attempts   int
	retryDelay time.Duration
	log        *zap.Logger
}

// NewClient wraps backend with the cache and retry stages configured by cfg.
// The API key in cfg is part of every cache key. store may be nil.
func NewClient(backend Searcher, store *cache.Store, cfg types.SearchConfig, log *zap.Logger) *Client {
	return &Client{
		backend:    backend,
		cache:      store,
		apiKey:     cfg.APIKey,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		log:        logging.OrNop(log),
	}
}

// Search returns results for query. Identical (query, maxResults, api key)
// calls are served from the cache after the first success. Transient
// failures are retried; when retries are exhausted the provider's error is
// returned unchanged.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	return cache.GetOrCompute(ctx, c.cache, cacheFunction, []any{query, maxResults, c.apiKey},
		func(ctx context.Context) ([]types.SearchResult, error) {
			return httputil.Retry(ctx, c.attempts, c.retryDelay, func(ctx context.Context) ([]types.SearchResult, error) {
				results, err := c.backend.Search(ctx, query, maxResults)
				if err != nil {
					c.log.Debug("search attempt failed", zap.String("query", query), zap.Error(err))
					return nil, err
				}
				c.log.Debug("search completed", zap.String("query", query), zap.Int("results", len(results)))
				return results, nil
			})
		})
}
