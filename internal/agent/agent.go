// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent composes evaluation, research and prediction into one call
// per question.
//
// The run moves through Start, Evaluated, Researched and Predicted, and may
// stop early: an unpredictable question, failed research, an empty report
// or a failed prediction all end with a Prediction that carries only the
// evaluation. Only an evaluation failure is returned as an error, and
// PredictAll records it per question.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/evaluate"
	"github.com/namesty/evo.predict/internal/logging"
	"github.com/namesty/evo.predict/internal/parallel"
	"github.com/namesty/evo.predict/internal/research"
	"github.com/namesty/evo.predict/pkg/types"
)

// Predictor produces a Prediction from a question and its evidence.
// Implemented by *predict.Predictor.
type Predictor interface {
	Predict(ctx context.Context, question, evidence string, evaluation types.EvaluatedQuestion) (types.Prediction, error)
}

// Agent runs the evaluate-research-predict pipeline.
type Agent struct {
	Name       string
	Evaluator  evaluate.Evaluator
	Researcher research.Researcher
	Predictor  Predictor

	// MaxWorkers caps how many questions PredictAll runs at once. Zero
	// runs them all concurrently.
	MaxWorkers int

	log *zap.Logger
}

// New builds an Agent named by cfg.
func New(cfg types.AgentConfig, ev evaluate.Evaluator, r research.Researcher, p Predictor, log *zap.Logger) *Agent {
	name := cfg.Name
	if name == "" {
		name = "evo"
	}
	return &Agent{
		Name:       name,
		Evaluator:  ev,
		Researcher: r,
		Predictor:  p,
		MaxWorkers: cfg.MaxWorkers,
		log:        logging.OrNop(log).With(zap.String("agent", name)),
	}
}

func (a *Agent) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

// IsPredictable runs only the predictability gate.
func (a *Agent) IsPredictable(ctx context.Context, question string) (bool, error) {
	ev, err := a.Evaluator.Evaluate(ctx, question)
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", question, err)
	}
	return ev.IsPredictable.Answer, nil
}

// EvaluateResearchPredict runs the full pipeline for one question.
func (a *Agent) EvaluateResearchPredict(ctx context.Context, question string) (types.Prediction, error) {
	log := a.logger().With(zap.String("question", question))

	ev, err := a.Evaluator.Evaluate(ctx, question)
	if err != nil {
		return types.Prediction{}, fmt.Errorf("evaluating %q: %w", question, err)
	}
	evaluationOnly := types.Prediction{QuestionEvaluation: ev}

	if !ev.IsPredictable.Answer {
		log.Info("question not predictable", zap.String("reasoning", ev.IsPredictable.Reasoning))
		return evaluationOnly, nil
	}

	report, err := a.Researcher.Research(ctx, question)
	if err != nil {
		log.Warn("research failed", zap.Error(err))
		return evaluationOnly, nil
	}
	if strings.TrimSpace(report.Text) == "" {
		log.Warn("research produced no evidence", zap.Strings("sources", report.Metadata.Sources))
		return evaluationOnly, nil
	}
	log.Debug("research done",
		zap.String("strategy", report.Metadata.Strategy),
		zap.Int("sources", len(report.Metadata.Sources)),
		zap.Int("chars", len(report.Text)))

	prediction, err := a.Predictor.Predict(ctx, question, report.Text, ev)
	if err != nil {
		log.Warn("prediction failed", zap.Error(err))
		return evaluationOnly, nil
	}
	prediction.QuestionEvaluation = ev
	return prediction, nil
}

// Result is the outcome of one question in PredictAll. Err is set when the
// question could not be evaluated; Prediction then carries only the
// question.
type Result struct {
	Prediction types.Prediction
	Err        error
}

// PredictAll runs EvaluateResearchPredict for every question, at most
// MaxWorkers at a time, and returns one Result per question in question
// order. A failed question does not affect the others; only cancellation of
// ctx stops the batch and is returned as an error.
func (a *Agent) PredictAll(ctx context.Context, questions []string) ([]Result, error) {
	return parallel.Map(ctx, questions, a.MaxWorkers, func(ctx context.Context, q string) (Result, error) {
		p, err := a.EvaluateResearchPredict(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			a.logger().Warn("question failed", zap.String("question", q), zap.Error(err))
			return Result{
				Prediction: types.Prediction{QuestionEvaluation: types.EvaluatedQuestion{Question: q}},
				Err:        err,
			}, nil
		}
		return Result{Prediction: p}, nil
	})
}
