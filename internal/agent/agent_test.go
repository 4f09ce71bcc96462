// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesty/evo.predict/internal/predict"
	"github.com/namesty/evo.predict/internal/research"
	"github.com/namesty/evo.predict/pkg/types"
)

// --- spies ---

type spyEvaluator struct {
	predictable bool
	err         error
	failOn      string
	calls       atomic.Int32
}

func (s *spyEvaluator) Evaluate(_ context.Context, q string) (types.EvaluatedQuestion, error) {
	s.calls.Add(1)
	if s.err != nil && (s.failOn == "" || s.failOn == q) {
		return types.EvaluatedQuestion{}, s.err
	}
	return types.EvaluatedQuestion{
		Question:      q,
		IsPredictable: types.Decision{Answer: s.predictable, Reasoning: "because"},
	}, nil
}

type spyResearcher struct {
	text  string
	err   error
	calls atomic.Int32
}

func (s *spyResearcher) Research(context.Context, string) (research.Report, error) {
	s.calls.Add(1)
	if s.err != nil {
		return research.Report{}, s.err
	}
	return research.Report{Text: s.text, Metadata: research.Metadata{Strategy: "raw"}}, nil
}

type spyPredictor struct {
	pYes     float64
	err      error
	calls    atomic.Int32
	mu       sync.Mutex
	evidence string
}

func (s *spyPredictor) Predict(_ context.Context, _ string, evidence string, ev types.EvaluatedQuestion) (types.Prediction, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.evidence = evidence
	s.mu.Unlock()
	if s.err != nil {
		return types.Prediction{}, s.err
	}
	u := 0.5
	return types.Prediction{
		QuestionEvaluation:   ev,
		CompletionPrediction: &types.CompletionPrediction{PYes: s.pYes, Confidence: 0.8},
		InfoUtility:          &u,
	}, nil
}

const question = "Will the ECB raise rates before 2027-01-01?"

func newAgent(ev *spyEvaluator, r *spyResearcher, p *spyPredictor) *Agent {
	return New(types.AgentConfig{Name: "test"}, ev, r, p, nil)
}

func TestEvaluateResearchPredict_HappyPath(t *testing.T) {
	ev := &spyEvaluator{predictable: true}
	r := &spyResearcher{text: "ECB signals hikes."}
	p := &spyPredictor{pYes: 0.7}

	got, err := newAgent(ev, r, p).EvaluateResearchPredict(context.Background(), question)
	require.NoError(t, err)

	require.True(t, got.HasOutcome())
	assert.Equal(t, 0.7, got.CompletionPrediction.PYes)
	assert.Equal(t, question, got.QuestionEvaluation.Question)
	assert.Equal(t, "ECB signals hikes.", p.evidence)

	yes, err := got.BinaryAnswer()
	require.NoError(t, err)
	assert.True(t, yes)
}

func TestEvaluateResearchPredict_NotPredictableShortCircuits(t *testing.T) {
	ev := &spyEvaluator{predictable: false}
	r := &spyResearcher{text: "plenty of evidence"}
	p := &spyPredictor{pYes: 0.9}

	got, err := newAgent(ev, r, p).EvaluateResearchPredict(context.Background(), question)
	require.NoError(t, err)

	assert.Nil(t, got.CompletionPrediction)
	assert.Nil(t, got.InfoUtility)
	assert.False(t, got.QuestionEvaluation.IsPredictable.Answer)
	assert.Equal(t, int32(0), r.calls.Load())
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestEvaluateResearchPredict_EmptyEvidenceSkipsPredictor(t *testing.T) {
	for _, text := range []string{"", "  \n\t "} {
		ev := &spyEvaluator{predictable: true}
		r := &spyResearcher{text: text}
		p := &spyPredictor{pYes: 0.9}

		got, err := newAgent(ev, r, p).EvaluateResearchPredict(context.Background(), question)
		require.NoError(t, err)
		assert.False(t, got.HasOutcome())
		assert.Equal(t, int32(1), r.calls.Load())
		assert.Equal(t, int32(0), p.calls.Load())
	}
}

func TestEvaluateResearchPredict_ResearchErrorDegrades(t *testing.T) {
	ev := &spyEvaluator{predictable: true}
	r := &spyResearcher{err: &research.ResearchError{Goal: question, Err: research.ErrNoEvidence}}
	p := &spyPredictor{}

	got, err := newAgent(ev, r, p).EvaluateResearchPredict(context.Background(), question)
	require.NoError(t, err)
	assert.False(t, got.HasOutcome())
	assert.True(t, got.QuestionEvaluation.IsPredictable.Answer)
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestEvaluateResearchPredict_MalformedPredictionDegrades(t *testing.T) {
	ev := &spyEvaluator{predictable: true}
	r := &spyResearcher{text: "evidence"}
	p := &spyPredictor{err: &predict.MalformedResponseError{Field: "p_yes", Reason: "1.5 outside [0,1]"}}

	got, err := newAgent(ev, r, p).EvaluateResearchPredict(context.Background(), question)
	require.NoError(t, err)
	assert.False(t, got.HasOutcome())
	assert.Equal(t, int32(1), p.calls.Load())

	_, err = got.BinaryAnswer()
	assert.ErrorIs(t, err, types.ErrNoOutcome)
}

func TestEvaluateResearchPredict_EvaluationErrorPropagates(t *testing.T) {
	errModel := errors.New("model unavailable")
	ev := &spyEvaluator{err: errModel}
	r := &spyResearcher{text: "evidence"}

	_, err := newAgent(ev, r, &spyPredictor{}).EvaluateResearchPredict(context.Background(), question)
	assert.ErrorIs(t, err, errModel)
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestIsPredictable(t *testing.T) {
	a := newAgent(&spyEvaluator{predictable: true}, &spyResearcher{}, &spyPredictor{})
	ok, err := a.IsPredictable(context.Background(), question)
	require.NoError(t, err)
	assert.True(t, ok)

	a = newAgent(&spyEvaluator{err: errors.New("boom")}, &spyResearcher{}, &spyPredictor{})
	_, err = a.IsPredictable(context.Background(), question)
	assert.Error(t, err)
}

func TestPredictAll_PreservesOrder(t *testing.T) {
	ev := &spyEvaluator{predictable: true}
	r := &spyResearcher{text: "evidence"}
	p := &spyPredictor{pYes: 0.4}
	a := New(types.AgentConfig{MaxWorkers: 2}, ev, r, p, nil)

	questions := []string{"q1", "q2", "q3"}
	got, err := a.PredictAll(context.Background(), questions)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, res := range got {
		require.NoError(t, res.Err)
		assert.Equal(t, questions[i], res.Prediction.QuestionEvaluation.Question)
		assert.True(t, res.Prediction.HasOutcome())
	}
	assert.Equal(t, "evo", a.Name)
}

func TestPredictAll_FailedQuestionKeepsOthers(t *testing.T) {
	errModel := errors.New("transient 500")
	ev := &spyEvaluator{predictable: true, err: errModel, failOn: "q2"}
	r := &spyResearcher{text: "evidence"}
	p := &spyPredictor{pYes: 0.6}
	a := New(types.AgentConfig{MaxWorkers: 3}, ev, r, p, nil)

	got, err := a.PredictAll(context.Background(), []string{"q1", "q2", "q3"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.NoError(t, got[0].Err)
	assert.True(t, got[0].Prediction.HasOutcome())
	assert.NoError(t, got[2].Err)
	assert.True(t, got[2].Prediction.HasOutcome())

	assert.ErrorIs(t, got[1].Err, errModel)
	assert.Equal(t, "q2", got[1].Prediction.QuestionEvaluation.Question)
	assert.False(t, got[1].Prediction.HasOutcome())
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestPredictAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ev := &spyEvaluator{predictable: true, err: context.Canceled}
	a := New(types.AgentConfig{}, ev, &spyResearcher{text: "evidence"}, &spyPredictor{}, nil)

	got, err := a.PredictAll(ctx, []string{"q1", "q2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
