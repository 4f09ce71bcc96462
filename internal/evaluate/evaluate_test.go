// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesty/evo.predict/pkg/types"
)

type fakeModel struct {
	reply       string
	err         error
	prompt      string
	temperature float64
}

func (f *fakeModel) Complete(_ context.Context, prompt string, temperature float64) (string, error) {
	f.prompt = prompt
	f.temperature = temperature
	return f.reply, f.err
}

func (f *fakeModel) Name() string { return "fake" }

func TestLLMEvaluator(t *testing.T) {
	const q = "Will Bitcoin close above $100k on 2026-12-31?"
	tests := []struct {
		name    string
		reply   string
		want    types.EvaluatedQuestion
		wantErr bool
	}{
		{
			name:  "predictable",
			reply: `{"is_predictable": true, "reasoning": " Clear event and date. "}`,
			want:  types.EvaluatedQuestion{Question: q, IsPredictable: types.Decision{Answer: true, Reasoning: "Clear event and date."}},
		},
		{
			name:  "not predictable in fenced reply",
			reply: "Here you go:\n```json\n{\"is_predictable\": false, \"reasoning\": \"No time frame.\"}\n```",
			want:  types.EvaluatedQuestion{Question: q, IsPredictable: types.Decision{Answer: false, Reasoning: "No time frame."}},
		},
		{name: "missing flag", reply: `{"reasoning": "hmm"}`, wantErr: true},
		{name: "not json", reply: "Yes, it is predictable.", wantErr: true},
		{name: "wrong type", reply: `{"is_predictable": "yes"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeModel{reply: tt.reply}
			got, err := (&LLMEvaluator{Model: m, Temperature: 0.2}).Evaluate(context.Background(), q)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
			assert.Contains(t, m.prompt, q)
			assert.InDelta(t, 0.2, m.temperature, 1e-9)
		})
	}
}

func TestLLMEvaluator_ModelError(t *testing.T) {
	errModel := errors.New("rate limited")
	_, err := (&LLMEvaluator{Model: &fakeModel{err: errModel}}).Evaluate(context.Background(), "q")
	assert.ErrorIs(t, err, errModel)
}
