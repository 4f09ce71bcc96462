// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/namesty/evo.predict/internal/agent"
	"github.com/namesty/evo.predict/internal/cache"
	"github.com/namesty/evo.predict/internal/embedding"
	"github.com/namesty/evo.predict/internal/evaluate"
	"github.com/namesty/evo.predict/internal/llm"
	"github.com/namesty/evo.predict/internal/predict"
	"github.com/namesty/evo.predict/internal/research"
	"github.com/namesty/evo.predict/internal/scrape"
	"github.com/namesty/evo.predict/internal/websearch"
	"github.com/namesty/evo.predict/pkg/types"
)

func newSearcher(cfg types.Config, store *cache.Store) *websearch.Client {
	return websearch.NewClient(websearch.NewTavily(cfg.Search), store, cfg.Search, logger)
}

func newScraper(cfg types.Config, store *cache.Store) *scrape.Scraper {
	return scrape.NewScraper(scrape.NewFetcher(store, cfg.Scrape), cfg.Scrape.Timeout, logger)
}

// newResearcher builds the configured research strategy. model may be nil
// when no query planning is wanted.
func newResearcher(ctx context.Context, cfg types.Config, store *cache.Store, model llm.Model) (research.Researcher, error) {
	deps := research.Deps{
		Searcher:   newSearcher(cfg, store),
		Scraper:    newScraper(cfg, store),
		MaxResults: cfg.Search.MaxResults,
		MaxWorkers: cfg.Agent.MaxWorkers,
		Logger:     logger,
	}
	if model != nil && cfg.Research.SubQueries > 0 {
		deps.Planner = &research.LLMQueryPlanner{Model: model, Temperature: cfg.AI.Temperature}
	}
	if cfg.Research.Strategy == types.StrategyEmbedding {
		emb, err := embedding.New(ctx, cfg.Embedding)
		if err != nil {
			return nil, err
		}
		deps.Embedder = emb
	}
	return research.New(cfg, deps)
}

// newAgent wires the full pipeline. The returned store must be closed by
// the caller.
func newAgent(ctx context.Context, cfg types.Config) (*agent.Agent, *cache.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	model, err := llm.New(ctx, cfg.AI)
	if err != nil {
		return nil, nil, err
	}
	predictor, err := predict.New(model, cfg.AI.Temperature)
	if err != nil {
		return nil, nil, err
	}

	store := cache.New(cfg.Cache)
	researcher, err := newResearcher(ctx, cfg, store, model)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("building researcher: %w", err)
	}

	evaluator := &evaluate.LLMEvaluator{Model: model, Temperature: cfg.AI.Temperature}
	return agent.New(cfg.Agent, evaluator, researcher, predictor, logger), store, nil
}
