// Package agent orchestrates content generation for learning sessions. The
// Backend interface isolates the generation transport; Agent composes a
// Backend with the content parser and scenario constructors so the session
// flow always gets usable content, degraded to canned material when
// generation or parsing fails.
package agent

import (
	"context"
	"errors"
)

// ErrGenerationUnavailable indicates the backend could not produce content
// after exhausting its transport-level retries and fallbacks.
var ErrGenerationUnavailable = errors.New("content generation unavailable")

// ProfileContext carries the learner attributes that personalize generated
// content. Passed explicitly on every call; the backend holds no session
// state.
type ProfileContext struct {
	Industry        string
	Role            string
	ExperienceLevel string
	Domain          string
}

// ScenarioContext identifies the scenario that generated content belongs to.
type ScenarioContext struct {
	Title       string
	Description string
	Domain      string
	Difficulty  string
	Industry    string
}

// DecisionContext describes a recorded decision for feedback generation.
type DecisionContext struct {
	Prompt string
	Chosen string
}

// Backend produces raw generated content. Each method is a single blocking
// request/response; implementations carry no conversation state between
// calls. Returned strings are raw model output, parsed by the caller.
type Backend interface {
	// ScenarioNarrative generates a scenario title and opening narrative.
	ScenarioNarrative(ctx context.Context, prof ProfileContext) (string, error)

	// DecisionPoints generates count decision points for a scenario.
	DecisionPoints(ctx context.Context, sc ScenarioContext, prof ProfileContext, count int) (string, error)

	// DecisionFeedback generates an analysis of a recorded decision.
	DecisionFeedback(ctx context.Context, sc ScenarioContext, dc DecisionContext, wasCorrect bool) (string, error)

	// LearningMoment generates educational content for a scenario domain.
	LearningMoment(ctx context.Context, sc ScenarioContext) (string, error)

	// Assessment generates a knowledge assessment with numQuestions
	// questions.
	Assessment(ctx context.Context, sc ScenarioContext, prof ProfileContext, numQuestions int) (string, error)
}

// Recommender is an optional Backend extension for personalized learning
// recommendations. Backends that cannot generate them simply don't
// implement it.
type Recommender interface {
	// Recommendations generates guidance text from observed strengths and
	// knowledge gaps.
	Recommendations(ctx context.Context, prof ProfileContext, strengths, gaps []string) (string, error)
}
