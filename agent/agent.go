package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aabdullah27/cybersaga/content"
	"github.com/aabdullah27/cybersaga/scenario"
)

// Agent composes a Backend with the content parser and scenario
// constructors. Generation and parse failures never surface to the session
// flow as errors; the agent substitutes deterministic fallback content and
// reports the degradation through a flag.
type Agent struct {
	backend Backend
	logger  *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates an Agent over the given backend.
func New(backend Backend, opts ...Option) *Agent {
	a := &Agent{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScenarioResult is the outcome of scenario generation.
type ScenarioResult struct {
	Scenario *scenario.Scenario

	// Degraded is true when canned fallback content was substituted for
	// generated content.
	Degraded bool
}

// scenarioContext builds the generation context for an existing scenario.
func scenarioContext(s *scenario.Scenario) ScenarioContext {
	return ScenarioContext{
		Title:       s.Title,
		Description: s.Description,
		Domain:      s.Domain.String(),
		Difficulty:  string(s.Difficulty),
		Industry:    s.IndustryContext,
	}
}

// GenerateScenario produces a new scenario narrative for the learner. On
// generation or parse failure it returns the canned fallback scenario for
// the domain, flagged as degraded. The fallback already carries a decision
// point so the session can proceed without further generation.
func (a *Agent) GenerateScenario(ctx context.Context, prof ProfileContext) *ScenarioResult {
	domain := scenario.ParseDomain(prof.Domain)
	difficulty := scenario.ParseDifficulty(prof.ExperienceLevel)

	raw, err := a.backend.ScenarioNarrative(ctx, prof)
	if err != nil {
		a.logger.Warn("Scenario generation failed, using fallback", "domain", domain, "error", err)
		return &ScenarioResult{Scenario: scenario.Fallback(domain, difficulty, prof.Industry), Degraded: true}
	}

	payload, err := content.DecodeNarrative(raw)
	if err != nil {
		a.logger.Warn("Scenario narrative unparseable, using fallback", "domain", domain, "error", err)
		return &ScenarioResult{Scenario: scenario.Fallback(domain, difficulty, prof.Industry), Degraded: true}
	}

	s := scenario.New(domain, difficulty, payload.Title, payload.Description, prof.Industry)
	return &ScenarioResult{Scenario: s}
}

// PopulateDecisionPoints generates and attaches count decision points to the
// scenario. On generation or parse failure it attaches the canned decision
// point for the domain instead and reports degradation. A returned error
// means the scenario itself refused the append (completed scenario).
func (a *Agent) PopulateDecisionPoints(ctx context.Context, s *scenario.Scenario, prof ProfileContext, count int) (bool, error) {
	raw, err := a.backend.DecisionPoints(ctx, scenarioContext(s), prof, count)
	if err != nil {
		a.logger.Warn("Decision point generation failed, using fallback", "scenario", s.ID, "error", err)
		return true, a.attachFallbackDecisionPoints(s)
	}

	payloads, err := content.DecodeDecisionPoints(raw)
	if err != nil {
		a.logger.Warn("Decision points unparseable, using fallback", "scenario", s.ID, "error", err)
		return true, a.attachFallbackDecisionPoints(s)
	}

	points := make([]*scenario.DecisionPoint, len(payloads))
	for i, p := range payloads {
		opts := make([]scenario.Option, len(p.Options))
		for j, o := range p.Options {
			feedback := o.Feedback
			if feedback == "" {
				feedback = scenario.FallbackFeedback(o.IsCorrect)
			}
			opts[j] = scenario.Option{Label: o.Text, Feedback: feedback}
		}
		points[i] = &scenario.DecisionPoint{
			Prompt:       p.Question,
			Options:      opts,
			CorrectIndex: p.CorrectIndex(),
		}
	}

	if err := s.AddDecisionPoints(points...); err != nil {
		return false, fmt.Errorf("attach decision points: %w", err)
	}
	return false, nil
}

func (a *Agent) attachFallbackDecisionPoints(s *scenario.Scenario) error {
	fb := scenario.Fallback(s.Domain, s.Difficulty, s.IndustryContext)
	if err := s.AddDecisionPoints(fb.DecisionPoints...); err != nil {
		return fmt.Errorf("attach fallback decision points: %w", err)
	}
	return nil
}

// GenerateAssessment generates and attaches the post-scenario knowledge
// assessment. On generation or parse failure it attaches the canned
// assessment for the domain instead and reports degradation. A returned
// error means the scenario refused the assessment (completed scenario).
func (a *Agent) GenerateAssessment(ctx context.Context, s *scenario.Scenario, prof ProfileContext, numQuestions int) (bool, error) {
	raw, err := a.backend.Assessment(ctx, scenarioContext(s), prof, numQuestions)
	if err != nil {
		a.logger.Warn("Assessment generation failed, using fallback", "scenario", s.ID, "error", err)
		return true, a.attachFallbackAssessment(s)
	}

	payload, err := content.DecodeAssessment(raw)
	if err != nil {
		a.logger.Warn("Assessment unparseable, using fallback", "scenario", s.ID, "error", err)
		return true, a.attachFallbackAssessment(s)
	}

	questions := make([]*scenario.AssessmentQuestion, len(payload.Questions))
	for i, q := range payload.Questions {
		opts := make([]string, len(q.Options))
		correct := 0
		for j, o := range q.Options {
			opts[j] = o.Text
			if o.IsCorrect {
				correct = j
			}
		}
		questions[i] = &scenario.AssessmentQuestion{
			Prompt:       q.Question,
			Options:      opts,
			CorrectIndex: correct,
			Explanation:  q.Explanation,
		}
	}

	if err := s.SetAssessment(questions); err != nil {
		return false, fmt.Errorf("attach assessment: %w", err)
	}
	return false, nil
}

func (a *Agent) attachFallbackAssessment(s *scenario.Scenario) error {
	if err := s.SetAssessment(scenario.FallbackAssessment(s.Domain)); err != nil {
		return fmt.Errorf("attach fallback assessment: %w", err)
	}
	return nil
}

// FeedbackFor generates analysis of an answered decision point. On failure
// it returns canned feedback matching the decision's correctness, flagged
// degraded. Unanswered decision points get canned cautionary feedback.
func (a *Agent) FeedbackFor(ctx context.Context, s *scenario.Scenario, dp *scenario.DecisionPoint) (string, bool) {
	if !dp.Answered() {
		return scenario.FallbackFeedback(false), true
	}

	dc := DecisionContext{
		Prompt: dp.Prompt,
		Chosen: dp.Options[*dp.Selected].Label,
	}

	text, err := a.backend.DecisionFeedback(ctx, scenarioContext(s), dc, dp.Correct())
	if err != nil {
		a.logger.Warn("Feedback generation failed, using fallback", "scenario", s.ID, "error", err)
		return scenario.FallbackFeedback(dp.Correct()), true
	}
	return text, false
}

// LearningMomentFor generates educational content triggered by a decision
// and records it on the scenario. On generation failure canned content is
// recorded instead, flagged degraded. A returned error means the scenario
// rejected the learning moment (unknown decision or completed scenario).
func (a *Agent) LearningMomentFor(ctx context.Context, s *scenario.Scenario, decisionID string) (string, bool, error) {
	degraded := false

	text, err := a.backend.LearningMoment(ctx, scenarioContext(s))
	if err != nil {
		a.logger.Warn("Learning moment generation failed, using fallback", "scenario", s.ID, "error", err)
		text = scenario.FallbackLearningMoment(s.Domain)
		degraded = true
	}

	if err := s.AddLearningMoment(text, decisionID); err != nil {
		return "", false, fmt.Errorf("record learning moment: %w", err)
	}
	return text, degraded, nil
}

// RecommendationsFor generates personalized learning recommendations. When
// the backend cannot generate them (or doesn't support them) it returns
// canned guidance, flagged degraded.
func (a *Agent) RecommendationsFor(ctx context.Context, prof ProfileContext, strengths, gaps []string) (string, bool) {
	r, ok := a.backend.(Recommender)
	if !ok {
		return fallbackRecommendations(gaps), true
	}

	text, err := r.Recommendations(ctx, prof, strengths, gaps)
	if err != nil {
		a.logger.Warn("Recommendation generation failed, using fallback", "error", err)
		return fallbackRecommendations(gaps), true
	}
	return text, false
}

func fallbackRecommendations(gaps []string) string {
	if len(gaps) == 0 {
		return "Keep practicing across all security domains. Revisit completed scenarios at a higher difficulty to reinforce what you've learned."
	}
	text := "Focus your next sessions on the areas where you've shown gaps:\n"
	for _, g := range gaps {
		text += fmt.Sprintf("- Run a %s scenario and review its learning moments.\n", g)
	}
	return text
}
