package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/aabdullah27/cybersaga/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend returns scripted responses and records the contexts it was
// called with.
type fakeBackend struct {
	narrative      string
	narrativeErr   error
	decisionPoints string
	decisionErr    error
	feedback       string
	feedbackErr    error
	learning       string
	learningErr    error
	assessment     string
	assessmentErr  error

	lastProfile  ProfileContext
	lastScenario ScenarioContext
	lastCount    int
}

func (f *fakeBackend) ScenarioNarrative(_ context.Context, prof ProfileContext) (string, error) {
	f.lastProfile = prof
	return f.narrative, f.narrativeErr
}

func (f *fakeBackend) DecisionPoints(_ context.Context, sc ScenarioContext, prof ProfileContext, count int) (string, error) {
	f.lastScenario = sc
	f.lastProfile = prof
	f.lastCount = count
	return f.decisionPoints, f.decisionErr
}

func (f *fakeBackend) DecisionFeedback(_ context.Context, sc ScenarioContext, _ DecisionContext, _ bool) (string, error) {
	f.lastScenario = sc
	return f.feedback, f.feedbackErr
}

func (f *fakeBackend) LearningMoment(_ context.Context, sc ScenarioContext) (string, error) {
	f.lastScenario = sc
	return f.learning, f.learningErr
}

func (f *fakeBackend) Assessment(_ context.Context, sc ScenarioContext, prof ProfileContext, n int) (string, error) {
	f.lastScenario = sc
	f.lastProfile = prof
	f.lastCount = n
	return f.assessment, f.assessmentErr
}

const validNarrative = `{"title": "Wire Transfer Trap", "description": "You receive an urgent payment request from what appears to be your CFO."}`

const validDecisionPoints = `[
  {
    "question": "What do you do first?",
    "options": [
      {"text": "Process the payment", "is_correct": false, "feedback": "Urgency is the attacker's lever."},
      {"text": "Verify through a known channel", "is_correct": true, "feedback": "Out-of-band verification defeats impersonation."}
    ]
  }
]`

const validAssessment = `{
  "questions": [
    {
      "question": "Why verify payment requests out of band?",
      "options": [
        {"text": "It's faster", "is_correct": false},
        {"text": "It defeats sender impersonation", "is_correct": true},
        {"text": "It's required by email providers", "is_correct": false}
      ],
      "explanation": "A separate channel confirms the request came from the real sender."
    }
  ]
}`

func testProfile() ProfileContext {
	return ProfileContext{
		Industry:        "finance",
		Role:            "analyst",
		ExperienceLevel: "intermediate",
		Domain:          "phishing",
	}
}

func TestGenerateScenario(t *testing.T) {
	backend := &fakeBackend{narrative: validNarrative}
	a := New(backend)

	res := a.GenerateScenario(context.Background(), testProfile())
	require.NotNil(t, res.Scenario)
	assert.False(t, res.Degraded)
	assert.Equal(t, "Wire Transfer Trap", res.Scenario.Title)
	assert.Equal(t, scenario.DomainPhishing, res.Scenario.Domain)
	assert.Equal(t, scenario.DifficultyIntermediate, res.Scenario.Difficulty)
	assert.Equal(t, "finance", res.Scenario.IndustryContext)

	// Full learner context must reach the backend on every call.
	assert.Equal(t, "analyst", backend.lastProfile.Role)
}

func TestGenerateScenarioWrappedJSON(t *testing.T) {
	backend := &fakeBackend{
		narrative: "Here is your scenario:\n```json\n" + validNarrative + "\n```\nEnjoy!",
	}
	a := New(backend)

	res := a.GenerateScenario(context.Background(), testProfile())
	assert.False(t, res.Degraded)
	assert.Equal(t, "Wire Transfer Trap", res.Scenario.Title)
}

func TestGenerateScenarioFallsBackOnBackendError(t *testing.T) {
	backend := &fakeBackend{narrativeErr: ErrGenerationUnavailable}
	a := New(backend)

	res := a.GenerateScenario(context.Background(), testProfile())
	require.NotNil(t, res.Scenario)
	assert.True(t, res.Degraded)
	assert.Equal(t, scenario.DomainPhishing, res.Scenario.Domain)
	assert.Equal(t, scenario.StatusNotStarted, res.Scenario.Status)
	// Fallback carries a decision point so the session can proceed.
	assert.NotEmpty(t, res.Scenario.DecisionPoints)
}

func TestGenerateScenarioFallsBackOnMalformedOutput(t *testing.T) {
	backend := &fakeBackend{narrative: "I'm sorry, I can't produce JSON today."}
	a := New(backend)

	res := a.GenerateScenario(context.Background(), testProfile())
	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Scenario.Title)
}

func TestPopulateDecisionPoints(t *testing.T) {
	backend := &fakeBackend{decisionPoints: validDecisionPoints}
	a := New(backend)
	s := scenario.New(scenario.DomainPhishing, scenario.DifficultyBeginner, "t", "d", "finance")

	degraded, err := a.PopulateDecisionPoints(context.Background(), s, testProfile(), 1)
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, s.DecisionPoints, 1)

	dp := s.DecisionPoints[0]
	assert.Equal(t, "What do you do first?", dp.Prompt)
	assert.Equal(t, 1, dp.CorrectIndex)
	assert.Equal(t, "Out-of-band verification defeats impersonation.", dp.Options[1].Feedback)
	assert.Equal(t, 1, backend.lastCount)
	assert.Equal(t, "t", backend.lastScenario.Title)
}

func TestPopulateDecisionPointsFallsBackOnSchemaViolation(t *testing.T) {
	// Two options marked correct: the whole batch must be rejected and
	// replaced with fallback content.
	backend := &fakeBackend{decisionPoints: `[
		{"question": "q", "options": [
			{"text": "a", "is_correct": true},
			{"text": "b", "is_correct": true}
		]}
	]`}
	a := New(backend)
	s := scenario.New(scenario.DomainRansomware, scenario.DifficultyBeginner, "t", "d", "")

	degraded, err := a.PopulateDecisionPoints(context.Background(), s, testProfile(), 3)
	require.NoError(t, err)
	assert.True(t, degraded)
	require.NotEmpty(t, s.DecisionPoints)
	dp := s.DecisionPoints[0]
	assert.True(t, dp.CorrectIndex >= 0 && dp.CorrectIndex < len(dp.Options))
}

func TestPopulateDecisionPointsCompletedScenario(t *testing.T) {
	backend := &fakeBackend{decisionPoints: validDecisionPoints}
	a := New(backend)

	s := scenario.New(scenario.DomainPhishing, scenario.DifficultyBeginner, "t", "d", "")
	require.NoError(t, s.AddDecisionPoints(&scenario.DecisionPoint{
		Prompt:       "q",
		Options:      []scenario.Option{{Label: "a"}, {Label: "b"}},
		CorrectIndex: 0,
	}))
	_, err := s.RecordDecision(s.DecisionPoints[0].ID, 0)
	require.NoError(t, err)
	require.Equal(t, scenario.StatusCompleted, s.Status)

	_, err = a.PopulateDecisionPoints(context.Background(), s, testProfile(), 1)
	assert.ErrorIs(t, err, scenario.ErrInvalidState)
}

func TestGenerateAssessment(t *testing.T) {
	backend := &fakeBackend{assessment: validAssessment}
	a := New(backend)
	s := scenario.New(scenario.DomainPhishing, scenario.DifficultyBeginner, "t", "d", "")

	degraded, err := a.GenerateAssessment(context.Background(), s, testProfile(), 1)
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, s.Assessment, 1)
	assert.Equal(t, 1, s.Assessment[0].CorrectIndex)
	assert.NotEmpty(t, s.Assessment[0].Explanation)
}

func TestGenerateAssessmentFallsBack(t *testing.T) {
	backend := &fakeBackend{assessmentErr: errors.New("model down")}
	a := New(backend)
	s := scenario.New(scenario.DomainDataProtection, scenario.DifficultyBeginner, "t", "d", "")

	degraded, err := a.GenerateAssessment(context.Background(), s, testProfile(), 5)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Len(t, s.Assessment, 3) // canned assessment size
}

func TestFeedbackFor(t *testing.T) {
	backend := &fakeBackend{feedback: "Good choice: verification defeats urgency."}
	a := New(backend)

	s := scenario.New(scenario.DomainPhishing, scenario.DifficultyBeginner, "t", "d", "")
	require.NoError(t, s.AddDecisionPoints(
		&scenario.DecisionPoint{Prompt: "q", Options: []scenario.Option{{Label: "a"}, {Label: "b"}}, CorrectIndex: 1},
		&scenario.DecisionPoint{Prompt: "q2", Options: []scenario.Option{{Label: "a"}, {Label: "b"}}, CorrectIndex: 1},
	))
	_, err := s.RecordDecision(s.DecisionPoints[0].ID, 1)
	require.NoError(t, err)

	text, degraded := a.FeedbackFor(context.Background(), s, s.DecisionPoints[0])
	assert.False(t, degraded)
	assert.Equal(t, "Good choice: verification defeats urgency.", text)

	// Backend failure falls back to canned feedback.
	backend.feedbackErr = errors.New("model down")
	text, degraded = a.FeedbackFor(context.Background(), s, s.DecisionPoints[0])
	assert.True(t, degraded)
	assert.NotEmpty(t, text)

	// Unanswered decision gets cautionary canned feedback without a call.
	text, degraded = a.FeedbackFor(context.Background(), s, s.DecisionPoints[1])
	assert.True(t, degraded)
	assert.NotEmpty(t, text)
}

func TestLearningMomentFor(t *testing.T) {
	backend := &fakeBackend{learning: "Verify before you trust."}
	a := New(backend)

	s := scenario.New(scenario.DomainPhishing, scenario.DifficultyBeginner, "t", "d", "")
	require.NoError(t, s.AddDecisionPoints(
		&scenario.DecisionPoint{Prompt: "q", Options: []scenario.Option{{Label: "a"}, {Label: "b"}}, CorrectIndex: 1},
		&scenario.DecisionPoint{Prompt: "q2", Options: []scenario.Option{{Label: "a"}, {Label: "b"}}, CorrectIndex: 1},
	))
	dpID := s.DecisionPoints[0].ID

	text, degraded, err := a.LearningMomentFor(context.Background(), s, dpID)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "Verify before you trust.", text)
	require.Len(t, s.LearningMoments, 1)
	assert.Equal(t, dpID, s.LearningMoments[0].DecisionID)

	// Generation failure still records a canned moment.
	backend.learningErr = errors.New("model down")
	text, degraded, err = a.LearningMomentFor(context.Background(), s, s.DecisionPoints[1].ID)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, text)
	assert.Len(t, s.LearningMoments, 2)

	// Foreign decision ids are a real error, not a degradation.
	_, _, err = a.LearningMomentFor(context.Background(), s, "dp-unknown")
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestRecommendationsForWithoutRecommender(t *testing.T) {
	// fakeBackend does not implement Recommender.
	a := New(&fakeBackend{})

	text, degraded := a.RecommendationsFor(context.Background(), testProfile(), nil, []string{"ransomware"})
	assert.True(t, degraded)
	assert.Contains(t, text, "ransomware")
}

// recommendingBackend upgrades fakeBackend with the optional Recommender
// extension.
type recommendingBackend struct {
	fakeBackend
	recommendation string
}

func (r *recommendingBackend) Recommendations(_ context.Context, _ ProfileContext, _, _ []string) (string, error) {
	return r.recommendation, nil
}

func TestRecommendationsForWithRecommender(t *testing.T) {
	a := New(&recommendingBackend{recommendation: "Study TLS basics."})

	text, degraded := a.RecommendationsFor(context.Background(), testProfile(), nil, nil)
	assert.False(t, degraded)
	assert.Equal(t, "Study TLS basics.", text)
}
