// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/embedding"
	"github.com/namesty/evo.predict/internal/vectorindex"
)

const defaultTopK = 8

// EmbeddingResearcher indexes chunks of every scraped page and reports the
// chunks most similar to the goal.
type EmbeddingResearcher struct {
	*gatherer

	Embedder embedding.Embedder
	Splitter *RecursiveSplitter

	// TopK is the number of chunks in the report (default 8).
	TopK int

	// IndexPath is the SQLite file for the index; empty keeps it in memory.
	IndexPath string
}

// Research gathers evidence, splits and embeds it into a fresh collection,
// and joins the top-k chunks for the goal.
func (r *EmbeddingResearcher) Research(ctx context.Context, goal string) (Report, error) {
	ev, err := r.gather(ctx, goal)
	if err != nil {
		return Report{}, err
	}

	splitter := r.Splitter
	if splitter == nil {
		splitter = NewRecursiveSplitter(0, 0)
	}

	var (
		texts []string
		metas []map[string]any
	)
	for i, page := range ev.pages {
		content := page.Content
		if content == "" {
			content = ev.results[i].RawContent
		}
		for _, chunk := range splitter.Split(content) {
			texts = append(texts, chunk)
			metas = append(metas, map[string]any{
				"query": page.Query,
				"url":   page.URL,
				"title": page.Title,
			})
		}
	}

	report := Report{Metadata: Metadata{
		Strategy: "embedding",
		Queries:  ev.queries,
		Sources:  sources(ev.pages),
		Chunks:   len(texts),
	}}
	if len(texts) == 0 {
		r.log.Warn("no page content to index", zap.String("goal", goal))
		return report, nil
	}

	idx, err := vectorindex.NewSQLite(r.IndexPath, r.Embedder)
	if err != nil {
		return Report{}, &ResearchError{Goal: goal, Err: err}
	}
	defer idx.Close()

	if err := idx.Add(ctx, texts, metas); err != nil {
		return Report{}, &ResearchError{Goal: goal, Err: err}
	}

	k := r.TopK
	if k <= 0 {
		k = defaultTopK
	}
	docs, err := idx.Query(ctx, goal, k)
	if err != nil {
		return Report{}, &ResearchError{Goal: goal, Err: err}
	}
	r.log.Debug("retrieved chunks", zap.Int("indexed", len(texts)), zap.Int("retrieved", len(docs)))

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Text)
	}
	report.Text = strings.Join(parts, "\n\n")
	return report, nil
}
