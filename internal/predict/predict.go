// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package predict asks a language model for a probability estimate of a
// question given an evidence report.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/namesty/evo.predict/internal/llm"
	"github.com/namesty/evo.predict/pkg/types"
)

// MalformedResponseError reports a model reply that does not parse into
// the expected flat shape. Field is empty when the reply as a whole is
// unusable.
type MalformedResponseError struct {
	Field  string
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return "malformed prediction response: " + e.Reason
	}
	return fmt.Sprintf("malformed prediction response: %s: %s", e.Field, e.Reason)
}

var predictPromptTmpl = template.Must(template.New("predict").Parse(`You are an LLM inside a multi-agent system that forecasts the outcome of prediction markets.

You are given a market question and an evidence report gathered from the web. Estimate the probability that the market resolves "Yes".

INSTRUCTIONS
- Consider only the question and the evidence. The evidence may be incomplete, outdated or contradictory; weigh it accordingly.
- If the event in the question has a deadline that the evidence shows has already passed without the event, the probability should be low.
- Output a single JSON object with exactly these keys and nothing else:
  - "p_yes": probability that the market resolves Yes, a number between 0 and 1
  - "confidence": how confident you are in p_yes, a number between 0 and 1
  - "info_utility": how useful the evidence was for the estimate, a number between 0 and 1

QUESTION
{{.Question}}

EVIDENCE
{{.Evidence}}
`))

// Predictor turns a question and evidence into a Prediction.
type Predictor struct {
	model       llm.Model
	temperature float64
}

// New returns a Predictor. temperature must lie in [0, 1].
func New(model llm.Model, temperature float64) (*Predictor, error) {
	if model == nil {
		return nil, fmt.Errorf("predict: model is required")
	}
	if temperature < 0 || temperature > 1 {
		return nil, fmt.Errorf("predict: temperature %v out of range [0,1]", temperature)
	}
	return &Predictor{model: model, temperature: temperature}, nil
}

// Predict prompts the model and parses p_yes, confidence and info_utility.
// Any missing, non-numeric or out-of-range value is a
// *MalformedResponseError; values are never clamped or defaulted.
func (p *Predictor) Predict(ctx context.Context, question, evidence string, evaluation types.EvaluatedQuestion) (types.Prediction, error) {
	var buf bytes.Buffer
	if err := predictPromptTmpl.Execute(&buf, struct{ Question, Evidence string }{question, evidence}); err != nil {
		return types.Prediction{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := p.model.Complete(ctx, buf.String(), p.temperature)
	if err != nil {
		return types.Prediction{}, fmt.Errorf("requesting prediction: %w", err)
	}

	pYes, confidence, utility, err := parseResponse(reply)
	if err != nil {
		return types.Prediction{}, err
	}
	return types.Prediction{
		QuestionEvaluation:   evaluation,
		CompletionPrediction: &types.CompletionPrediction{PYes: pYes, Confidence: confidence},
		InfoUtility:          &utility,
	}, nil
}

func parseResponse(reply string) (pYes, confidence, utility float64, err error) {
	raw, err := llm.ExtractObject(reply)
	if err != nil {
		return 0, 0, 0, &MalformedResponseError{Reason: err.Error(), Raw: reply}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return 0, 0, 0, &MalformedResponseError{Reason: "not a JSON object: " + err.Error(), Raw: reply}
	}

	probability := func(key string) (float64, error) {
		v, ok := fields[key]
		if !ok {
			return 0, &MalformedResponseError{Field: key, Reason: "missing", Raw: reply}
		}
		var f float64
		if string(bytes.TrimSpace(v)) == "null" {
			return 0, &MalformedResponseError{Field: key, Reason: "null", Raw: reply}
		}
		if err := json.Unmarshal(v, &f); err != nil {
			return 0, &MalformedResponseError{Field: key, Reason: fmt.Sprintf("not a number: %s", v), Raw: reply}
		}
		if f < 0 || f > 1 {
			return 0, &MalformedResponseError{Field: key, Reason: fmt.Sprintf("%v outside [0,1]", f), Raw: reply}
		}
		return f, nil
	}

	if pYes, err = probability("p_yes"); err != nil {
		return 0, 0, 0, err
	}
	if confidence, err = probability("confidence"); err != nil {
		return 0, 0, 0, err
	}
	if utility, err = probability("info_utility"); err != nil {
		return 0, 0, 0, err
	}
	return pYes, confidence, utility, nil
}
