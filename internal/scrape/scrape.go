// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches web pages and reduces them to clean text.
// Scraping never fails: unreachable pages and non-HTML responses yield an
// empty string so that one bad source cannot abort a research run.
package scrape

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/logging"
	"github.com/namesty/evo.predict/internal/parallel"
	"github.com/namesty/evo.predict/pkg/types"
)

// DefaultTimeout bounds a single page fetch when none is configured.
const DefaultTimeout = 10 * time.Second

// PageFetcher downloads a page. Implemented by Fetcher.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string, timeout time.Duration) (Page, error)
}

// PageScraper turns a URL into clean text. Implemented by Scraper.
type PageScraper interface {
	Scrape(ctx context.Context, url string) string
}

// Scraper fetches pages and cleans their HTML.
type Scraper struct {
	fetcher PageFetcher
	timeout time.Duration
	log     *zap.Logger
}

// NewScraper builds a Scraper. A zero timeout uses DefaultTimeout.
func NewScraper(fetcher PageFetcher, timeout time.Duration, log *zap.Logger) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{fetcher: fetcher, timeout: timeout, log: logging.OrNop(log)}
}

// Scrape returns the cleaned text of url, or "" when the page cannot be
// fetched, is not HTML, or cannot be parsed.
func (s *Scraper) Scrape(ctx context.Context, url string) string {
	page, err := s.fetcher.FetchHTML(ctx, url, s.timeout)
	if err != nil {
		s.log.Warn("scrape failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	if !strings.Contains(strings.ToLower(page.ContentType), "text/html") {
		s.log.Debug("skipping non-HTML page",
			zap.String("url", url), zap.String("content_type", page.ContentType))
		return ""
	}

	text, err := CleanHTML(page.Body)
	if err != nil {
		s.log.Warn("cleaning HTML failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	return text
}

// ScrapeResults scrapes every result concurrently, bounded by maxWorkers
// (zero means unbounded), and returns one ScrapeResult per input in input
// order. Scrape degrades to empty content, so the only error returned is
// context cancellation.
func ScrapeResults(ctx context.Context, scraper PageScraper, results []types.SearchResult, maxWorkers int) ([]types.ScrapeResult, error) {
	return parallel.Map(ctx, results, maxWorkers, func(ctx context.Context, r types.SearchResult) (types.ScrapeResult, error) {
		if err := ctx.Err(); err != nil {
			return types.ScrapeResult{}, err
		}
		return types.NewScrapeResult(r, scraper.Scrape(ctx, r.URL)), nil
	})
}
