// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-embedding-001"

// Gemini task types for documents and the queries matched against them.
const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// genaiBatchSize is the largest batch sent in one EmbedContent call.
const genaiBatchSize = 100

// genaiBaseURL overrides the Gemini endpoint when set (tests).
var genaiBaseURL = ""

// GenAI generates embeddings using Google's Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a GenAI embedder. Documents are embedded with the
// RETRIEVAL_DOCUMENT task type and queries with RETRIEVAL_QUERY.
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultGenAIModel
	}

	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if genaiBaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: genaiBaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

// Name returns the engine name.
func (e *GenAI) Name() string {
	return "genai:" + e.model
}

// Embed embeds document texts in batches.
func (e *GenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, taskRetrievalDocument)
}

// EmbedQuery embeds a search query.
func (e *GenAI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, taskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *GenAI) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += genaiBatchSize {
		end := min(start+genaiBatchSize, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		result, err := e.client.Models.EmbedContent(ctx, e.model, contents,
			&genai.EmbedContentConfig{TaskType: taskType})
		if err != nil {
			return nil, fmt.Errorf("GenAI embed: %w", err)
		}
		if len(result.Embeddings) != end-start {
			return nil, fmt.Errorf("GenAI returned %d embeddings for %d texts", len(result.Embeddings), end-start)
		}
		for _, emb := range result.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}
