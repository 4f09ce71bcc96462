// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research condenses web evidence about a goal into a text report.
// Two strategies share the same gathering step (plan queries, search,
// scrape): RawResearcher concatenates the cleaned pages, and
// EmbeddingResearcher retrieves the chunks most similar to the goal from a
// vector index.
package research

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/embedding"
	"github.com/namesty/evo.predict/internal/scrape"
	"github.com/namesty/evo.predict/internal/websearch"
	"github.com/namesty/evo.predict/pkg/types"
)

// ErrNoEvidence is wrapped by ResearchError when the searches return no
// results at all.
var ErrNoEvidence = errors.New("no search results")

// ResearchError reports that no report could be produced for Goal.
type ResearchError struct {
	Goal string
	Err  error
}

func (e *ResearchError) Error() string {
	return fmt.Sprintf("research %q: %v", e.Goal, e.Err)
}

func (e *ResearchError) Unwrap() error { return e.Err }

// Researcher produces an evidence report for a goal.
type Researcher interface {
	Research(ctx context.Context, goal string) (Report, error)
}

// Report is the condensed evidence and how it was obtained.
type Report struct {
	Text     string   `json:"text" yaml:"text"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata describes a research run.
type Metadata struct {
	Strategy string   `json:"strategy" yaml:"strategy"`
	Queries  []string `json:"queries" yaml:"queries"`
	Sources  []string `json:"sources" yaml:"sources"`
	Chunks   int      `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// Deps are the collaborators shared by both strategies.
type Deps struct {
	Searcher websearch.Searcher
	Scraper  scrape.PageScraper

	// Planner proposes extra search queries. Optional.
	Planner QueryPlanner

	// Embedder is required by the embedding strategy only.
	Embedder embedding.Embedder

	// MaxResults is the number of results requested per query.
	MaxResults int

	// MaxWorkers caps the scrape fan-out; zero means one worker per result.
	MaxWorkers int

	Logger *zap.Logger
}

// New returns the Researcher selected by cfg.Research.Strategy.
func New(cfg types.Config, deps Deps) (Researcher, error) {
	if deps.Searcher == nil || deps.Scraper == nil {
		return nil, errors.New("research: searcher and scraper are required")
	}
	g := newGatherer(cfg.Research, deps)

	switch cfg.Research.Strategy {
	case types.StrategyRaw, "":
		return &RawResearcher{gatherer: g, MaxChars: cfg.Research.MaxReportChars}, nil
	case types.StrategyEmbedding:
		if deps.Embedder == nil {
			return nil, errors.New("research: embedding strategy requires an embedder")
		}
		return &EmbeddingResearcher{
			gatherer:  g,
			Embedder:  deps.Embedder,
			Splitter:  NewRecursiveSplitter(cfg.Embedding.ChunkSize, cfg.Embedding.ChunkOverlap),
			TopK:      cfg.Embedding.TopK,
			IndexPath: cfg.Research.IndexPath,
		}, nil
	default:
		return nil, fmt.Errorf("research: unsupported strategy %q", cfg.Research.Strategy)
	}
}
