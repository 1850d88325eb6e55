package content

import "fmt"

// NarrativePayload is the expected shape of a generated scenario narrative.
type NarrativePayload struct {
	// Title is the scenario headline.
	Title string `json:"title"`

	// Description is the opening situation, written in second person.
	Description string `json:"description"`
}

// Validate checks the narrative shape.
func (p *NarrativePayload) Validate() error {
	if p.Title == "" {
		return NewSchemaViolation("title", "required field is missing or empty")
	}
	if p.Description == "" {
		return NewSchemaViolation("description", "required field is missing or empty")
	}
	return nil
}

// OptionPayload is a single answer choice within a decision point or
// assessment question.
type OptionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`

	// Feedback explains the consequence of choosing this option. May be
	// empty for assessment options, which carry a question-level explanation
	// instead.
	Feedback string `json:"feedback,omitempty"`
}

// DecisionPointPayload is the expected shape of a generated decision point.
type DecisionPointPayload struct {
	Question string          `json:"question"`
	Options  []OptionPayload `json:"options"`
}

// Validate checks the decision point shape: a question, at least two
// options, and exactly one option marked correct.
func (p *DecisionPointPayload) Validate() error {
	if p.Question == "" {
		return NewSchemaViolation("question", "required field is missing or empty")
	}
	if len(p.Options) < 2 {
		return NewSchemaViolation("options", fmt.Sprintf("need at least 2 options, got %d", len(p.Options)))
	}
	correct := 0
	for i, opt := range p.Options {
		if opt.Text == "" {
			return NewSchemaViolation(fmt.Sprintf("options[%d].text", i), "required field is missing or empty")
		}
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return NewSchemaViolation("options", fmt.Sprintf("exactly one option must be correct, got %d", correct))
	}
	return nil
}

// CorrectIndex returns the index of the option marked correct. Only
// meaningful after Validate has passed.
func (p *DecisionPointPayload) CorrectIndex() int {
	for i, opt := range p.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}

// AssessmentQuestionPayload is one multiple-choice question in a generated
// knowledge assessment.
type AssessmentQuestionPayload struct {
	Question    string          `json:"question"`
	Options     []OptionPayload `json:"options"`
	Explanation string          `json:"explanation"`
}

// AssessmentPayload is the expected shape of a generated knowledge
// assessment.
type AssessmentPayload struct {
	Questions []AssessmentQuestionPayload `json:"questions"`
}

// Validate checks the assessment shape.
func (p *AssessmentPayload) Validate() error {
	if len(p.Questions) == 0 {
		return NewSchemaViolation("questions", "assessment has no questions")
	}
	for i, q := range p.Questions {
		if q.Question == "" {
			return NewSchemaViolation(fmt.Sprintf("questions[%d].question", i), "required field is missing or empty")
		}
		if len(q.Options) < 2 {
			return NewSchemaViolation(fmt.Sprintf("questions[%d].options", i), fmt.Sprintf("need at least 2 options, got %d", len(q.Options)))
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return NewSchemaViolation(fmt.Sprintf("questions[%d].options", i), fmt.Sprintf("exactly one option must be correct, got %d", correct))
		}
	}
	return nil
}

// DecodeNarrative extracts and validates a scenario narrative from raw LLM
// output.
func DecodeNarrative(raw string) (*NarrativePayload, error) {
	var p NarrativePayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeDecisionPoints extracts and validates an ordered list of decision
// points from raw LLM output. A single invalid entry rejects the whole list;
// callers never see a partially valid batch.
func DecodeDecisionPoints(raw string) ([]DecisionPointPayload, error) {
	var points []DecisionPointPayload
	if err := decode(raw, &points); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, NewSchemaViolation("(root)", "decision point list is empty")
	}
	for i := range points {
		if err := points[i].Validate(); err != nil {
			return nil, err
		}
	}
	return points, nil
}

// DecodeAssessment extracts and validates a knowledge assessment from raw
// LLM output.
func DecodeAssessment(raw string) (*AssessmentPayload, error) {
	var p AssessmentPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
