// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/namesty/evo.predict/internal/llm"
)

// QueryPlanner proposes up to n web search queries that help answer goal.
type QueryPlanner interface {
	Plan(ctx context.Context, goal string, n int) ([]string, error)
}

var planPromptTmpl = template.Must(template.New("plan").Parse(`You are a research assistant preparing web searches.

Goal: {{.Goal}}

Write {{.N}} distinct web search queries that together would find the most relevant, recent evidence for the goal. Prefer concrete names, dates and numbers over generic wording.

Respond with a JSON array of strings and nothing else, for example:
["query one", "query two"]
`))

// LLMQueryPlanner asks a language model for search queries.
type LLMQueryPlanner struct {
	Model       llm.Model
	Temperature float64
}

// Plan renders the planning prompt and parses the JSON list in the reply.
func (p *LLMQueryPlanner) Plan(ctx context.Context, goal string, n int) ([]string, error) {
	var buf bytes.Buffer
	if err := planPromptTmpl.Execute(&buf, struct {
		Goal string
		N    int
	}{goal, n}); err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := p.Model.Complete(ctx, buf.String(), p.Temperature)
	if err != nil {
		return nil, err
	}
	raw, err := llm.ExtractArray(reply)
	if err != nil {
		return nil, err
	}
	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		return nil, fmt.Errorf("parsing query list: %w", err)
	}

	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
