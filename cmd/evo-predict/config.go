// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/namesty/evo.predict/internal/secrets"
	"github.com/namesty/evo.predict/pkg/types"
)

// setDefaults registers every configuration key with its default value so
// that file, environment and flag values all resolve through viper.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("secrets_dir", secrets.DefaultDir)

	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.depth", d.Search.Depth)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.attempts", d.Search.Attempts)
	v.SetDefault("search.retry_delay", d.Search.RetryDelay)

	v.SetDefault("scrape.timeout", d.Scrape.Timeout)
	v.SetDefault("scrape.user_agent", d.Scrape.UserAgent)
	v.SetDefault("scrape.attempts", d.Scrape.Attempts)
	v.SetDefault("scrape.retry_delay", d.Scrape.RetryDelay)

	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.disabled", d.Cache.Disabled)

	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.ollama_endpoint", d.Embedding.OllamaEndpoint)
	v.SetDefault("embedding.chunk_size", d.Embedding.ChunkSize)
	v.SetDefault("embedding.chunk_overlap", d.Embedding.ChunkOverlap)
	v.SetDefault("embedding.top_k", d.Embedding.TopK)

	v.SetDefault("research.strategy", d.Research.Strategy)
	v.SetDefault("research.sub_queries", d.Research.SubQueries)
	v.SetDefault("research.max_report_chars", d.Research.MaxReportChars)
	v.SetDefault("research.index_path", d.Research.IndexPath)

	v.SetDefault("agent.name", d.Agent.Name)
	v.SetDefault("agent.max_workers", d.Agent.MaxWorkers)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// configFrom reads the effective configuration from v. API keys left empty
// are resolved from the loaded secret files and then the environment.
func configFrom(v *viper.Viper, loaded map[string]string) types.Config {
	cfg := types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("search.timeout"),
				UserAgent: v.GetString("search.user_agent"),
			},
			RetryConfig: types.RetryConfig{
				Attempts:   v.GetInt("search.attempts"),
				RetryDelay: v.GetDuration("search.retry_delay"),
			},
			APIKey:     secrets.Resolve(v.GetString("search.api_key"), loaded, secrets.TavilyKey),
			MaxResults: v.GetInt("search.max_results"),
			Depth:      v.GetString("search.depth"),
		},
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("scrape.timeout"),
				UserAgent: v.GetString("scrape.user_agent"),
			},
			RetryConfig: types.RetryConfig{
				Attempts:   v.GetInt("scrape.attempts"),
				RetryDelay: v.GetDuration("scrape.retry_delay"),
			},
		},
		Cache: types.CacheConfig{
			Path:     v.GetString("cache.path"),
			Disabled: v.GetBool("cache.disabled"),
		},
		AI: types.AIConfig{
			Provider:    v.GetString("ai.provider"),
			Model:       v.GetString("ai.model"),
			Temperature: v.GetFloat64("ai.temperature"),
			MaxRetries:  v.GetInt("ai.max_retries"),
		},
		Embedding: types.EmbeddingConfig{
			Provider:       v.GetString("embedding.provider"),
			Model:          v.GetString("embedding.model"),
			OllamaEndpoint: v.GetString("embedding.ollama_endpoint"),
			ChunkSize:      v.GetInt("embedding.chunk_size"),
			ChunkOverlap:   v.GetInt("embedding.chunk_overlap"),
			TopK:           v.GetInt("embedding.top_k"),
		},
		Research: types.ResearchConfig{
			Strategy:       v.GetString("research.strategy"),
			SubQueries:     v.GetInt("research.sub_queries"),
			MaxReportChars: v.GetInt("research.max_report_chars"),
			IndexPath:      v.GetString("research.index_path"),
		},
		Agent: types.AgentConfig{
			Name:       v.GetString("agent.name"),
			MaxWorkers: v.GetInt("agent.max_workers"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	aiKey := secrets.AnthropicKey
	if cfg.AI.Provider == types.ProviderGemini {
		aiKey = secrets.GeminiKey
	}
	cfg.AI.APIKey = secrets.Resolve(v.GetString("ai.api_key"), loaded, aiKey)
	if cfg.Embedding.Provider == types.ProviderGemini {
		cfg.Embedding.APIKey = secrets.Resolve(v.GetString("embedding.api_key"), loaded, secrets.GeminiKey)
	}
	return cfg
}

// loadConfig returns the effective configuration of this invocation.
func loadConfig() types.Config {
	return configFrom(viper.GetViper(), loadedSecrets)
}

const redacted = "********"

// redact blanks every API key in cfg.
func redact(cfg types.Config) types.Config {
	for _, k := range []*string{&cfg.Search.APIKey, &cfg.AI.APIKey, &cfg.Embedding.APIKey} {
		if *k != "" {
			*k = redacted
		}
	}
	return cfg
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration after merging defaults, the config file,
EVO_PREDICT_* environment variables and flags. API keys are redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		out, err := yaml.Marshal(redact(cfg))
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		os.Stdout.Write(out)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
