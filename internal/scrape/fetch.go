// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/namesty/evo.predict/internal/cache"
	"github.com/namesty/evo.predict/internal/httputil"
	"github.com/namesty/evo.predict/pkg/types"
)

// maxBodyBytes bounds how much of a page is read.
const maxBodyBytes = 5 << 20

// fetchFunction names the cached fetch in cache keys and statistics.
const fetchFunction = "scrape.FetchHTML"

// Page is a fetched HTTP response body with the headers the scraper needs.
type Page struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// StatusError reports an HTTP error status for a fetched URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
}

// Fetcher downloads pages with a browser-like User-Agent. Calls go through
// the cache (keyed by url and timeout) and then a fixed-backoff retry.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	cache      *cache.Store
	attempts   int
	retryDelay time.Duration
}

// NewFetcher builds a Fetcher from cfg. store may be nil to disable caching.
func NewFetcher(store *cache.Store, cfg types.ScrapeConfig) *Fetcher {
	ua := cfg.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	return &Fetcher{
		client:     &http.Client{},
		userAgent:  ua,
		cache:      store,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
	}
}

// FetchHTML downloads url, bounded by timeout per attempt. Network errors,
// HTTP 5xx and 429 are retried; other 4xx statuses fail immediately. The
// final error propagates to the caller.
func (f *Fetcher) FetchHTML(ctx context.Context, url string, timeout time.Duration) (Page, error) {
	return cache.GetOrCompute(ctx, f.cache, fetchFunction, []any{url, timeout},
		func(ctx context.Context) (Page, error) {
			return httputil.Retry(ctx, f.attempts, f.retryDelay, func(ctx context.Context) (Page, error) {
				return f.get(ctx, url, timeout)
			})
		})
}

func (f *Fetcher) get(ctx context.Context, url string, timeout time.Duration) (Page, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, httputil.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return Page{}, statusErr
		}
		return Page{}, httputil.Permanent(statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading %s: %w", url, err)
	}

	return Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
