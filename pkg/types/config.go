// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingKey marks a configuration error caused by an absent API key.
var ErrMissingKey = errors.New("missing API key")

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig controls the fixed-backoff retry stage wrapped around
// network calls.
type RetryConfig struct {
	// Attempts is the total number of tries, including the first (default 3).
	Attempts int `json:"attempts" yaml:"attempts"`

	// RetryDelay is the fixed wait between attempts (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`
}

// SearchConfig holds settings for the web search client.
type SearchConfig struct {
	HTTPConfig  `yaml:",inline"`
	RetryConfig `yaml:",inline"`

	// APIKey authenticates with the search provider (Tavily).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the number of results requested per query (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Depth is the provider search depth: "basic" or "advanced".
	Depth string `json:"depth" yaml:"depth"`
}

// ScrapeConfig holds settings for page fetching and cleaning.
type ScrapeConfig struct {
	HTTPConfig  `yaml:",inline"`
	RetryConfig `yaml:",inline"`
}

// CacheConfig locates the persistent call cache.
type CacheConfig struct {
	// Path is the SQLite database file backing the cache.
	Path string `json:"path" yaml:"path"`

	// Disabled turns every cached call into a plain call.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// Provider names for language-model and embedding backends.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// AIConfig holds shared settings for stages that call a language model.
type AIConfig struct {
	// Provider selects the backend: "anthropic" or "gemini".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature, within [0, 1].
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of 429 retries for model calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EmbeddingConfig holds settings for the embedding-retrieval research strategy.
type EmbeddingConfig struct {
	// Provider selects the embedding backend: "gemini" or "ollama".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the embedding model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates with the embedding provider when required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// OllamaEndpoint is the base URL of a local Ollama server.
	OllamaEndpoint string `json:"ollama_endpoint" yaml:"ollama_endpoint"`

	// ChunkSize is the target chunk length in characters (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the number of characters shared by adjacent chunks (default 200).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// TopK is the number of chunks retrieved into the report (default 8).
	TopK int `json:"top_k" yaml:"top_k"`
}

// Research strategy names.
const (
	StrategyRaw       = "raw"
	StrategyEmbedding = "embedding"
)

// ResearchConfig holds settings for the evidence condenser.
type ResearchConfig struct {
	// Strategy selects "raw" concatenation or "embedding" retrieval.
	Strategy string `json:"strategy" yaml:"strategy"`

	// SubQueries is the number of extra search queries generated from the goal.
	SubQueries int `json:"sub_queries" yaml:"sub_queries"`

	// MaxReportChars bounds the raw-concatenation report (default 20000).
	MaxReportChars int `json:"max_report_chars" yaml:"max_report_chars"`

	// IndexPath is the SQLite file for the vector index; empty keeps it in memory.
	IndexPath string `json:"index_path" yaml:"index_path"`
}

// AgentConfig holds settings for the evaluate-research-predict agent.
type AgentConfig struct {
	// Name identifies the agent in logs.
	Name string `json:"name" yaml:"name"`

	// MaxWorkers caps the scrape fan-out and concurrent questions in
	// PredictAll. Zero means one worker per item.
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// Config groups all component configurations.
type Config struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Scrape    ScrapeConfig    `json:"scrape" yaml:"scrape"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Research  ResearchConfig  `json:"research" yaml:"research"`
	Agent     AgentConfig     `json:"agent" yaml:"agent"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// DefaultUserAgent is a browser-like User-Agent; many sites reject the Go default.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:107.0) Gecko/20100101 Firefox/107.0"

// DefaultConfig returns the configuration used when no file or flag overrides it.
func DefaultConfig() Config {
	retry := RetryConfig{Attempts: 3, RetryDelay: time.Second}
	return Config{
		Search: SearchConfig{
			HTTPConfig:  HTTPConfig{Timeout: 30 * time.Second, UserAgent: "evo-predict/0.1"},
			RetryConfig: retry,
			MaxResults:  5,
			Depth:       "advanced",
		},
		Scrape: ScrapeConfig{
			HTTPConfig:  HTTPConfig{Timeout: 10 * time.Second, UserAgent: DefaultUserAgent},
			RetryConfig: retry,
		},
		Cache: CacheConfig{Path: ".cache/evo-predict.db"},
		AI: AIConfig{
			Provider:    ProviderAnthropic,
			Model:       "claude-sonnet-4-5-20250929",
			Temperature: 0,
			MaxRetries:  3,
		},
		Embedding: EmbeddingConfig{
			Provider:       ProviderGemini,
			Model:          "gemini-embedding-001",
			OllamaEndpoint: "http://localhost:11434",
			ChunkSize:      1000,
			ChunkOverlap:   200,
			TopK:           8,
		},
		Research: ResearchConfig{
			Strategy:       StrategyRaw,
			SubQueries:     0,
			MaxReportChars: 20000,
		},
		Agent: AgentConfig{Name: "evo"},
		Log:   LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks enumerated values and required keys for the selected
// providers. It is called once at startup so that misconfiguration fails
// before any network call.
func (c Config) Validate() error {
	if c.Search.APIKey == "" {
		return fmt.Errorf("search: %w (set TAVILY_API_KEY or .secrets/tavily-api-key)", ErrMissingKey)
	}
	switch c.AI.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("ai: unsupported provider %q: use anthropic or gemini", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai: %w for provider %s", ErrMissingKey, c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 1 {
		return fmt.Errorf("ai: temperature %v out of range [0,1]", c.AI.Temperature)
	}
	switch c.Research.Strategy {
	case StrategyRaw:
	case StrategyEmbedding:
		switch c.Embedding.Provider {
		case ProviderGemini:
			if c.Embedding.APIKey == "" {
				return fmt.Errorf("embedding: %w for provider gemini", ErrMissingKey)
			}
		case ProviderOllama:
		default:
			return fmt.Errorf("embedding: unsupported provider %q: use gemini or ollama", c.Embedding.Provider)
		}
		if c.Embedding.ChunkOverlap >= c.Embedding.ChunkSize {
			return fmt.Errorf("embedding: chunk_overlap %d must be smaller than chunk_size %d",
				c.Embedding.ChunkOverlap, c.Embedding.ChunkSize)
		}
	default:
		return fmt.Errorf("research: unsupported strategy %q: use raw or embedding", c.Research.Strategy)
	}
	if c.Agent.MaxWorkers < 0 {
		return fmt.Errorf("agent: max_workers must not be negative")
	}
	return nil
}
