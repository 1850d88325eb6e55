// Package scenario models one interactive security training scenario: its
// narrative, ordered decision points, learning moments, and closing
// knowledge assessment. The lifecycle is a forward-only state machine
// (not_started → in_progress → completed) and a completed scenario is
// immutable.
package scenario

import (
	"fmt"

	"github.com/google/uuid"
)

// Domain is the security category a scenario belongs to.
type Domain string

const (
	DomainPhishing          Domain = "phishing"
	DomainRansomware        Domain = "ransomware"
	DomainSocialEngineering Domain = "social_engineering"
	DomainDataProtection    Domain = "data_protection"
	DomainNetworkSecurity   Domain = "network_security"
	DomainOther             Domain = "other"
)

// IsValid checks if a domain is a known security category.
func (d Domain) IsValid() bool {
	switch d {
	case DomainPhishing, DomainRansomware, DomainSocialEngineering,
		DomainDataProtection, DomainNetworkSecurity, DomainOther:
		return true
	}
	return false
}

// String returns the string representation of the domain.
func (d Domain) String() string {
	return string(d)
}

// ParseDomain converts a string to a Domain, mapping unknown values to
// DomainOther.
func ParseDomain(s string) Domain {
	d := Domain(s)
	if d.IsValid() {
		return d
	}
	return DomainOther
}

// Domains lists all security categories in presentation order.
func Domains() []Domain {
	return []Domain{
		DomainPhishing,
		DomainRansomware,
		DomainSocialEngineering,
		DomainDataProtection,
		DomainNetworkSecurity,
		DomainOther,
	}
}

// Difficulty is the experience level a scenario targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsValid checks if a difficulty is a known level.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty converts a string to a Difficulty, defaulting to beginner
// for unknown values.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(s)
	if d.IsValid() {
		return d
	}
	return DifficultyBeginner
}

// Status is the lifecycle state of a scenario.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Option is a single answer choice within a decision point.
type Option struct {
	// Label is the choice text presented to the user.
	Label string `json:"label"`

	// Feedback explains the consequence of this choice. It is shown
	// whether or not the choice was correct.
	Feedback string `json:"feedback"`
}

// DecisionPoint is one in-narrative choice presented to the user.
type DecisionPoint struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`

	// Options is ordered; at least 2 entries, exactly one correct.
	Options []Option `json:"options"`

	// CorrectIndex is the index of the correct option.
	CorrectIndex int `json:"correct_index"`

	// Selected is nil until the user answers, then set exactly once.
	Selected *int `json:"selected,omitempty"`
}

// Answered reports whether the user has answered this decision point.
func (dp *DecisionPoint) Answered() bool {
	return dp.Selected != nil
}

// Correct reports whether the recorded answer matches the correct option.
// False if unanswered.
func (dp *DecisionPoint) Correct() bool {
	return dp.Selected != nil && *dp.Selected == dp.CorrectIndex
}

// LearningMoment is educational content surfaced after a decision. It
// references the triggering decision point by id, it does not own it.
type LearningMoment struct {
	Text       string `json:"text"`
	DecisionID string `json:"decision_id"`
}

// AssessmentQuestion is one multiple-choice question in the post-scenario
// knowledge assessment.
type AssessmentQuestion struct {
	Prompt string `json:"prompt"`

	// Options is ordered; at least 2 entries.
	Options []string `json:"options"`

	// CorrectIndex is the index of the correct option.
	CorrectIndex int `json:"correct_index"`

	// Explanation tells the user why the correct answer is right.
	Explanation string `json:"explanation,omitempty"`

	// Answer is nil until the user answers, then set exactly once.
	Answer *int `json:"answer,omitempty"`
}

// Answered reports whether the user has answered this question.
func (q *AssessmentQuestion) Answered() bool {
	return q.Answer != nil
}

// Correct reports whether the recorded answer matches the correct option.
func (q *AssessmentQuestion) Correct() bool {
	return q.Answer != nil && *q.Answer == q.CorrectIndex
}

// Scenario is one complete narrative learning unit. It exclusively owns its
// decision points, learning moments, and assessment questions.
type Scenario struct {
	// ID uniquely identifies the scenario. Immutable after creation.
	ID string `json:"id"`

	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Domain          Domain     `json:"domain"`
	Difficulty      Difficulty `json:"difficulty"`
	IndustryContext string     `json:"industry_context,omitempty"`

	// DecisionPoints is ordered; insertion order is narrative order.
	DecisionPoints []*DecisionPoint `json:"decision_points"`

	// LearningMoments is ordered by when each was surfaced.
	LearningMoments []LearningMoment `json:"learning_moments,omitempty"`

	// Assessment holds the post-scenario quiz questions.
	Assessment []*AssessmentQuestion `json:"assessment,omitempty"`

	// Status only moves forward. Use Advance; never set directly.
	Status Status `json:"status"`
}

// New creates a scenario in the not_started state with a generated id.
func New(domain Domain, difficulty Difficulty, title, description, industry string) *Scenario {
	return &Scenario{
		ID:              fmt.Sprintf("%s-%s", domain, uuid.New().String()[:8]),
		Title:           title,
		Description:     description,
		Domain:          domain,
		Difficulty:      difficulty,
		IndustryContext: industry,
		Status:          StatusNotStarted,
	}
}

// AddDecisionPoints validates and appends a batch of decision points.
// The append is all-or-nothing: one invalid entry rejects the whole batch
// with a *ValidationError and nothing is appended. Appending to a completed
// scenario fails with ErrInvalidState.
func (s *Scenario) AddDecisionPoints(points ...*DecisionPoint) error {
	if s.Status == StatusCompleted {
		return ErrInvalidState
	}

	for i, dp := range points {
		if dp.Prompt == "" {
			return &ValidationError{Index: i, Field: "prompt", Msg: "must not be empty"}
		}
		if len(dp.Options) < 2 {
			return &ValidationError{Index: i, Field: "options", Msg: fmt.Sprintf("need at least 2, got %d", len(dp.Options))}
		}
		if dp.CorrectIndex < 0 || dp.CorrectIndex >= len(dp.Options) {
			return &ValidationError{Index: i, Field: "correct_index", Msg: fmt.Sprintf("index %d outside options bounds [0,%d)", dp.CorrectIndex, len(dp.Options))}
		}
		if dp.Selected != nil {
			return &ValidationError{Index: i, Field: "selected", Msg: "new decision points must be unanswered"}
		}
	}

	for _, dp := range points {
		if dp.ID == "" {
			dp.ID = fmt.Sprintf("dp-%s", uuid.New().String()[:8])
		}
		s.DecisionPoints = append(s.DecisionPoints, dp)
	}
	return nil
}

// AddLearningMoment records educational content triggered by a decision
// point. The decision must belong to this scenario.
func (s *Scenario) AddLearningMoment(text, decisionID string) error {
	if s.Status == StatusCompleted {
		return ErrInvalidState
	}
	if s.findDecision(decisionID) == nil {
		return fmt.Errorf("decision %s: %w", decisionID, ErrNotFound)
	}
	s.LearningMoments = append(s.LearningMoments, LearningMoment{Text: text, DecisionID: decisionID})
	return nil
}

// SetAssessment validates and attaches the knowledge assessment. Like
// decision points, the batch is all-or-nothing.
func (s *Scenario) SetAssessment(questions []*AssessmentQuestion) error {
	if s.Status == StatusCompleted {
		return ErrInvalidState
	}

	for i, q := range questions {
		if q.Prompt == "" {
			return &ValidationError{Index: i, Field: "prompt", Msg: "must not be empty"}
		}
		if len(q.Options) < 2 {
			return &ValidationError{Index: i, Field: "options", Msg: fmt.Sprintf("need at least 2, got %d", len(q.Options))}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return &ValidationError{Index: i, Field: "correct_index", Msg: fmt.Sprintf("index %d outside options bounds [0,%d)", q.CorrectIndex, len(q.Options))}
		}
		if q.Answer != nil {
			return &ValidationError{Index: i, Field: "answer", Msg: "new questions must be unanswered"}
		}
	}

	s.Assessment = questions
	return nil
}

// Advance moves the scenario forward when a transition is eligible:
// not_started → in_progress once any answer is recorded, in_progress →
// completed once every decision point and assessment question is answered.
// Calling it with no eligible transition is a no-op. Returns the resulting
// status.
func (s *Scenario) Advance() Status {
	if s.Status == StatusNotStarted && s.anyAnswered() {
		s.Status = StatusInProgress
	}
	if s.Status == StatusInProgress && s.allAnswered() {
		s.Status = StatusCompleted
	}
	return s.Status
}

func (s *Scenario) anyAnswered() bool {
	for _, dp := range s.DecisionPoints {
		if dp.Answered() {
			return true
		}
	}
	for _, q := range s.Assessment {
		if q.Answered() {
			return true
		}
	}
	return false
}

func (s *Scenario) allAnswered() bool {
	for _, dp := range s.DecisionPoints {
		if !dp.Answered() {
			return false
		}
	}
	for _, q := range s.Assessment {
		if !q.Answered() {
			return false
		}
	}
	return true
}

func (s *Scenario) findDecision(id string) *DecisionPoint {
	for _, dp := range s.DecisionPoints {
		if dp.ID == id {
			return dp
		}
	}
	return nil
}
