// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrNoOutcome is returned when an outcome is requested from a Prediction
// that carries no CompletionPrediction.
var ErrNoOutcome = errors.New("prediction has no outcome")

// Decision is a yes/no judgment together with the model's reasoning.
type Decision struct {
	Answer    bool   `json:"answer" yaml:"answer"`
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// EvaluatedQuestion is the result of the predictability gate for one question.
type EvaluatedQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	IsPredictable Decision `json:"is_predictable" yaml:"is_predictable"`
}

// CompletionPrediction is the probability estimate parsed from the model.
// Both fields lie in [0, 1].
type CompletionPrediction struct {
	PYes       float64 `json:"p_yes" yaml:"p_yes"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// PNo returns the complementary probability of a "no" resolution.
func (c CompletionPrediction) PNo() float64 {
	return 1 - c.PYes
}

// Prediction is the terminal output of the pipeline. QuestionEvaluation is
// always set; CompletionPrediction is nil unless research and prediction
// both succeeded.
type Prediction struct {
	QuestionEvaluation   EvaluatedQuestion     `json:"question_evaluation" yaml:"question_evaluation"`
	CompletionPrediction *CompletionPrediction `json:"completion_prediction,omitempty" yaml:"completion_prediction,omitempty"`
	InfoUtility          *float64              `json:"info_utility,omitempty" yaml:"info_utility,omitempty"`
}

// HasOutcome reports whether the prediction carries a probability estimate.
func (p Prediction) HasOutcome() bool {
	return p.CompletionPrediction != nil
}

// BinaryAnswer converts the estimate to a yes/no answer: yes when p_yes
// exceeds 0.5.
func (p Prediction) BinaryAnswer() (bool, error) {
	if p.CompletionPrediction == nil {
		return false, fmt.Errorf("%w: %q", ErrNoOutcome, p.QuestionEvaluation.Question)
	}
	return p.CompletionPrediction.PYes > 0.5, nil
}
