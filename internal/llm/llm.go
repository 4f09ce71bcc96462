// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the language models used for predictability
// evaluation, query planning and prediction. Backends are selected by
// provider name: Claude over the Anthropic Messages API, or Gemini through
// the genai SDK.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/namesty/evo.predict/pkg/types"
)

// ErrMissingAPIKey is returned when a backend is built without credentials.
var ErrMissingAPIKey = errors.New("llm: missing API key")

// Model completes a single-turn prompt.
type Model interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	Name() string
}

// New returns the Model configured by cfg.
func New(ctx context.Context, cfg types.AIConfig) (Model, error) {
	switch cfg.Provider {
	case types.ProviderAnthropic, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
		}
		return &Claude{APIKey: cfg.APIKey, Model: cfg.Model, MaxRetries: cfg.MaxRetries}, nil
	case types.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
