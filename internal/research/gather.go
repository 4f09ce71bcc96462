// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/logging"
	"github.com/namesty/evo.predict/internal/scrape"
	"github.com/namesty/evo.predict/internal/websearch"
	"github.com/namesty/evo.predict/pkg/types"
)

const defaultMaxResults = 5

// gatherer plans queries, searches them, and scrapes every result.
type gatherer struct {
	searcher   websearch.Searcher
	scraper    scrape.PageScraper
	planner    QueryPlanner
	subQueries int
	maxResults int
	maxWorkers int
	log        *zap.Logger
}

// evidence is the raw material shared by both strategies. results and
// pages are parallel slices in search order.
type evidence struct {
	queries []string
	results []types.SearchResult
	pages   []types.ScrapeResult
}

func newGatherer(cfg types.ResearchConfig, deps Deps) *gatherer {
	maxResults := deps.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &gatherer{
		searcher:   deps.Searcher,
		scraper:    deps.Scraper,
		planner:    deps.Planner,
		subQueries: cfg.SubQueries,
		maxResults: maxResults,
		maxWorkers: deps.MaxWorkers,
		log:        logging.OrNop(deps.Logger),
	}
}

func (g *gatherer) gather(ctx context.Context, goal string) (evidence, error) {
	queries := g.queries(ctx, goal)

	var results []types.SearchResult
	for _, q := range queries {
		rs, err := g.searcher.Search(ctx, q, g.maxResults)
		if err != nil {
			return evidence{}, &ResearchError{Goal: goal, Err: err}
		}
		g.log.Debug("search done", zap.String("query", q), zap.Int("results", len(rs)))
		results = append(results, rs...)
	}
	if len(results) == 0 {
		return evidence{}, &ResearchError{Goal: goal, Err: ErrNoEvidence}
	}

	pages, err := scrape.ScrapeResults(ctx, g.scraper, results, g.maxWorkers)
	if err != nil {
		return evidence{}, &ResearchError{Goal: goal, Err: err}
	}
	return evidence{queries: queries, results: results, pages: pages}, nil
}

// queries returns the goal followed by distinct planner suggestions. A
// planner failure is logged and leaves the goal as the only query.
func (g *gatherer) queries(ctx context.Context, goal string) []string {
	queries := []string{goal}
	if g.planner == nil || g.subQueries <= 0 {
		return queries
	}
	extra, err := g.planner.Plan(ctx, goal, g.subQueries)
	if err != nil {
		g.log.Warn("query planning failed, searching the goal only", zap.String("goal", goal), zap.Error(err))
		return queries
	}
	seen := map[string]bool{goal: true}
	for _, q := range extra {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
		if len(queries) > g.subQueries {
			break
		}
	}
	return queries
}

func sources(pages []types.ScrapeResult) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.URL)
	}
	return out
}
