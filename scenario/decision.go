package scenario

import "fmt"

// DecisionOutcome is the result of recording a user's decision.
type DecisionOutcome struct {
	// Correct is whether the selected option was the correct one.
	Correct bool

	// Feedback is the chosen option's feedback text, returned for right
	// and wrong answers alike.
	Feedback string
}

// RecordDecision records the user's selected option for a decision point and
// returns the outcome. The selection is set exactly once: re-answering fails
// with ErrAlreadyAnswered and never mutates the original answer. Recording
// may complete the scenario via Advance.
func (s *Scenario) RecordDecision(decisionID string, selected int) (DecisionOutcome, error) {
	if s.Status == StatusCompleted {
		return DecisionOutcome{}, ErrInvalidState
	}

	dp := s.findDecision(decisionID)
	if dp == nil {
		return DecisionOutcome{}, fmt.Errorf("decision %s: %w", decisionID, ErrNotFound)
	}
	if dp.Answered() {
		return DecisionOutcome{}, fmt.Errorf("decision %s: %w", decisionID, ErrAlreadyAnswered)
	}
	if selected < 0 || selected >= len(dp.Options) {
		return DecisionOutcome{}, fmt.Errorf("decision %s index %d: %w", decisionID, selected, ErrIndexOutOfRange)
	}

	sel := selected
	dp.Selected = &sel
	s.Advance()

	return DecisionOutcome{
		Correct:  selected == dp.CorrectIndex,
		Feedback: dp.Options[selected].Feedback,
	}, nil
}

// AnswerAssessment records the user's answer to an assessment question by
// its position. Same single-write semantics as RecordDecision. Answering the
// final open question may complete the scenario via Advance.
func (s *Scenario) AnswerAssessment(question, selected int) error {
	if s.Status == StatusCompleted {
		return ErrInvalidState
	}
	if question < 0 || question >= len(s.Assessment) {
		return fmt.Errorf("assessment question %d: %w", question, ErrNotFound)
	}

	q := s.Assessment[question]
	if q.Answered() {
		return fmt.Errorf("assessment question %d: %w", question, ErrAlreadyAnswered)
	}
	if selected < 0 || selected >= len(q.Options) {
		return fmt.Errorf("assessment question %d index %d: %w", question, selected, ErrIndexOutOfRange)
	}

	sel := selected
	q.Answer = &sel
	s.Advance()
	return nil
}
