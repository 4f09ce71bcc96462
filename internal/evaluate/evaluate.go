// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate decides whether a prediction-market question can be
// forecast at all before any research is spent on it.
package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/namesty/evo.predict/internal/llm"
	"github.com/namesty/evo.predict/pkg/types"
)

// Evaluator judges a question's predictability.
type Evaluator interface {
	Evaluate(ctx context.Context, question string) (types.EvaluatedQuestion, error)
}

var evaluatePromptTmpl = template.Must(template.New("evaluate").Parse(`Main signs about a fully qualified question (sometimes referred to as a "market"):
- The market's question needs to be specific, without use of pronouns.
- The market's question needs to have a clear future event.
- The market's question needs to have a clear time frame.
- The event in the market's question doesn't have to be ultra-specific, it will be decided by a crowd later on.
- If the market's question contains a date, but without a year, it's okay.
- If the market's question contains a year, but without an exact date, it's okay.
- The market's question can not be about itself or refer to itself.
- The answer is probably Google-able, after the event happened.
- The potential answer can only be "Yes" or "No".

Follow a chain of thought and evaluate whether the following question is fully qualified:

[QUESTION]
{{.Question}}
[/QUESTION]

Respond with a JSON object and nothing else:
{"is_predictable": true or false, "reasoning": "your chain of thought in one paragraph"}
`))

// LLMEvaluator asks a language model whether a question is fully
// qualified.
type LLMEvaluator struct {
	Model       llm.Model
	Temperature float64
}

type evaluationResponse struct {
	IsPredictable *bool  `json:"is_predictable"`
	Reasoning     string `json:"reasoning"`
}

// Evaluate renders the evaluation prompt and parses the model's verdict.
func (e *LLMEvaluator) Evaluate(ctx context.Context, question string) (types.EvaluatedQuestion, error) {
	var buf bytes.Buffer
	if err := evaluatePromptTmpl.Execute(&buf, struct{ Question string }{question}); err != nil {
		return types.EvaluatedQuestion{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := e.Model.Complete(ctx, buf.String(), e.Temperature)
	if err != nil {
		return types.EvaluatedQuestion{}, fmt.Errorf("evaluating question: %w", err)
	}

	raw, err := llm.ExtractObject(reply)
	if err != nil {
		return types.EvaluatedQuestion{}, fmt.Errorf("evaluating question: %w", err)
	}
	var resp evaluationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return types.EvaluatedQuestion{}, fmt.Errorf("parsing evaluation: %w", err)
	}
	if resp.IsPredictable == nil {
		return types.EvaluatedQuestion{}, fmt.Errorf("parsing evaluation: missing is_predictable in %q", raw)
	}

	return types.EvaluatedQuestion{
		Question: question,
		IsPredictable: types.Decision{
			Answer:    *resp.IsPredictable,
			Reasoning: strings.TrimSpace(resp.Reasoning),
		},
	}, nil
}
