package scenario

import (
	"fmt"
	"math"
)

// Default weighting between decision accuracy and assessment accuracy.
// The split is an even 50/50; deployments can override it through Weights
// (wired from configuration).
const (
	DefaultDecisionWeight   = 0.5
	DefaultAssessmentWeight = 0.5
)

// Weights controls how decision and assessment accuracy combine into the
// overall score. The two weights must be non-negative and sum to 1.
type Weights struct {
	Decision   float64
	Assessment float64
}

// DefaultWeights returns the standard 50/50 weighting.
func DefaultWeights() Weights {
	return Weights{Decision: DefaultDecisionWeight, Assessment: DefaultAssessmentWeight}
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	if w.Decision < 0 || w.Assessment < 0 {
		return fmt.Errorf("weights must be non-negative, got %v/%v", w.Decision, w.Assessment)
	}
	if math.Abs(w.Decision+w.Assessment-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %v", w.Decision+w.Assessment)
	}
	return nil
}

// ScoreReport is an immutable snapshot of a completed scenario's results.
// All accuracies are in [0,1].
type ScoreReport struct {
	ScenarioID string `json:"scenario_id"`

	CorrectDecisions int `json:"correct_decisions"`
	TotalDecisions   int `json:"total_decisions"`
	CorrectAnswers   int `json:"correct_answers"`
	TotalQuestions   int `json:"total_questions"`

	DecisionAccuracy   float64 `json:"decision_accuracy"`
	AssessmentAccuracy float64 `json:"assessment_accuracy"`

	// Overall is the weighted average of the two accuracies.
	Overall float64 `json:"overall"`
}

// Percent returns the overall score on a 0–100 scale.
func (r ScoreReport) Percent() float64 {
	return r.Overall * 100
}

// Score computes the score report for a completed scenario. It is a pure
// function of scenario state: scoring the same completed scenario twice
// yields identical reports. Scoring before completion fails with
// ErrInvalidState.
func (s *Scenario) Score(w Weights) (ScoreReport, error) {
	if s.Status != StatusCompleted {
		return ScoreReport{}, ErrInvalidState
	}
	if err := w.Validate(); err != nil {
		return ScoreReport{}, err
	}

	r := ScoreReport{
		ScenarioID:     s.ID,
		TotalDecisions: len(s.DecisionPoints),
		TotalQuestions: len(s.Assessment),
	}
	for _, dp := range s.DecisionPoints {
		if dp.Correct() {
			r.CorrectDecisions++
		}
	}
	for _, q := range s.Assessment {
		if q.Correct() {
			r.CorrectAnswers++
		}
	}

	// Accuracy over an empty set is defined as 0.
	if r.TotalDecisions > 0 {
		r.DecisionAccuracy = float64(r.CorrectDecisions) / float64(r.TotalDecisions)
	}
	if r.TotalQuestions > 0 {
		r.AssessmentAccuracy = float64(r.CorrectAnswers) / float64(r.TotalQuestions)
	}
	r.Overall = r.DecisionAccuracy*w.Decision + r.AssessmentAccuracy*w.Assessment
	return r, nil
}
