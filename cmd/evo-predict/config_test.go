package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesty/evo.predict/internal/agent"
	"github.com/namesty/evo.predict/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestConfigFrom_Defaults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := configFrom(newTestViper(), nil)
	want := types.DefaultConfig()

	assert.Equal(t, want.Search, cfg.Search)
	assert.Equal(t, want.Scrape, cfg.Scrape)
	assert.Equal(t, want.Cache, cfg.Cache)
	assert.Equal(t, want.AI, cfg.AI)
	assert.Equal(t, want.Research, cfg.Research)
	assert.Equal(t, want.Agent, cfg.Agent)
	assert.Equal(t, want.Log, cfg.Log)
}

func TestConfigFrom_ResolvesKeys(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	loaded := map[string]string{"tavily-api-key": "file-tavily"}
	cfg := configFrom(newTestViper(), loaded)

	assert.Equal(t, "file-tavily", cfg.Search.APIKey)
	assert.Equal(t, "env-anthropic", cfg.AI.APIKey)
	assert.Equal(t, "env-gemini", cfg.Embedding.APIKey)
}

func TestConfigFrom_GeminiProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("GEMINI_API_KEY", "")

	v := newTestViper()
	v.Set("ai.provider", "gemini")
	cfg := configFrom(v, map[string]string{"gemini-api-key": "file-gemini"})

	assert.Equal(t, "file-gemini", cfg.AI.APIKey)
}

func TestConfigFrom_ExplicitValuesWin(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-tavily")

	v := newTestViper()
	v.Set("search.api_key", "explicit")
	v.Set("scrape.timeout", "3s")
	v.Set("agent.max_workers", 4)
	v.Set("research.strategy", "embedding")
	cfg := configFrom(v, map[string]string{"tavily-api-key": "file-tavily"})

	assert.Equal(t, "explicit", cfg.Search.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 4, cfg.Agent.MaxWorkers)
	assert.Equal(t, types.StrategyEmbedding, cfg.Research.Strategy)
}

func TestRedact(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Search.APIKey = "tvly-secret"
	cfg.AI.APIKey = "sk-secret"

	got := redact(cfg)
	assert.Equal(t, redacted, got.Search.APIKey)
	assert.Equal(t, redacted, got.AI.APIKey)
	assert.Empty(t, got.Embedding.APIKey, "empty keys stay empty")
	assert.Equal(t, "sk-secret", cfg.AI.APIKey, "input must not be modified")
}

func TestWritePredictions_Text(t *testing.T) {
	util := 0.4
	results := []agent.Result{
		{Prediction: types.Prediction{
			QuestionEvaluation: types.EvaluatedQuestion{
				Question:      "Will it rain in Paris on 2026-11-01?",
				IsPredictable: types.Decision{Answer: true, Reasoning: "dated weather event"},
			},
			CompletionPrediction: &types.CompletionPrediction{PYes: 0.7, Confidence: 0.6},
			InfoUtility:          &util,
		}},
		{Prediction: types.Prediction{
			QuestionEvaluation: types.EvaluatedQuestion{Question: "Is blue better?"},
		}},
		{
			Prediction: types.Prediction{QuestionEvaluation: types.EvaluatedQuestion{Question: "q3"}},
			Err:        errors.New("model unavailable"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writePredictions(&buf, "text", results))
	out := buf.String()

	assert.Contains(t, out, "Question:    Will it rain in Paris on 2026-11-01?")
	assert.Contains(t, out, "P(yes):      0.700")
	assert.Contains(t, out, "P(no):       0.300")
	assert.Contains(t, out, "Error:       model unavailable")
	assert.Contains(t, out, "Info util.:  0.400")
	assert.Contains(t, out, "Answer:      yes")
	assert.Contains(t, out, "Predictable: false")
	assert.Contains(t, out, "Prediction:  none")
}

func TestWritePredictions_JSON(t *testing.T) {
	ok := types.Prediction{
		QuestionEvaluation:   types.EvaluatedQuestion{Question: "q"},
		CompletionPrediction: &types.CompletionPrediction{PYes: 0.2, Confidence: 0.9},
	}
	failed := types.Prediction{QuestionEvaluation: types.EvaluatedQuestion{Question: "q2"}}
	results := []agent.Result{
		{Prediction: ok},
		{Prediction: failed, Err: errors.New("model unavailable")},
	}

	var buf bytes.Buffer
	require.NoError(t, writePredictions(&buf, "json", results))

	var got []predictionOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, ok, got[0].Prediction)
	assert.Empty(t, got[0].Error)
	assert.Equal(t, failed, got[1].Prediction)
	assert.Equal(t, "model unavailable", got[1].Error)
}
