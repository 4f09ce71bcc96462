// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding turns text chunks into vectors for the retrieval
// research strategy. Backends: Google GenAI (cloud) and Ollama (local).
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/namesty/evo.predict/pkg/types"
)

// ErrMissingAPIKey is returned when a cloud backend has no credentials.
var ErrMissingAPIKey = errors.New("embedding: missing API key")

// Embedder generates one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}

// QueryEmbedder is implemented by backends that embed search queries
// differently from the documents they are matched against.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbedQuery embeds a search query with e, through its query path when e
// has one.
func EmbedQuery(ctx context.Context, e Embedder, text string) ([]float32, error) {
	if qe, ok := e.(QueryEmbedder); ok {
		return qe.EmbedQuery(ctx, text)
	}
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one text", len(vectors))
	}
	return vectors[0], nil
}

// New creates the Embedder selected by cfg.Provider.
func New(ctx context.Context, cfg types.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGenAI(ctx, cfg.APIKey, cfg.Model)
	case types.ProviderOllama:
		return NewOllama(cfg.OllamaEndpoint, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when the lengths differ or either vector is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
