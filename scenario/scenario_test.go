package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoOptions() []Option {
	return []Option{
		{Label: "bad choice", Feedback: "that went poorly"},
		{Label: "good choice", Feedback: "that went well"},
	}
}

func newTestScenario(t *testing.T, points int) *Scenario {
	t.Helper()
	s := New(DomainPhishing, DifficultyBeginner, "Test Scenario", "A test.", "finance")
	for i := 0; i < points; i++ {
		require.NoError(t, s.AddDecisionPoints(&DecisionPoint{
			Prompt:       "What now?",
			Options:      twoOptions(),
			CorrectIndex: 1,
		}))
	}
	return s
}

func TestNewScenario(t *testing.T) {
	s := New(DomainRansomware, DifficultyAdvanced, "t", "d", "")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StatusNotStarted, s.Status)
	assert.Equal(t, DomainRansomware, s.Domain)
}

func TestParseDomain(t *testing.T) {
	assert.Equal(t, DomainPhishing, ParseDomain("phishing"))
	assert.Equal(t, DomainOther, ParseDomain("quantum_hacking"))
	for _, d := range Domains() {
		assert.True(t, d.IsValid())
	}
}

func TestAddDecisionPointsAtomic(t *testing.T) {
	s := newTestScenario(t, 0)

	// Batch with one invalid entry (correct index out of bounds) must be
	// rejected wholesale.
	err := s.AddDecisionPoints(
		&DecisionPoint{Prompt: "ok", Options: twoOptions(), CorrectIndex: 0},
		&DecisionPoint{Prompt: "bad", Options: twoOptions(), CorrectIndex: 5},
	)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, "correct_index", ve.Field)
	assert.Empty(t, s.DecisionPoints, "nothing from the batch may be appended")
}

func TestAddDecisionPointsRejectsTooFewOptions(t *testing.T) {
	s := newTestScenario(t, 0)
	err := s.AddDecisionPoints(&DecisionPoint{
		Prompt:       "q",
		Options:      []Option{{Label: "only one"}},
		CorrectIndex: 0,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "options", ve.Field)
}

func TestLifecycle(t *testing.T) {
	s := newTestScenario(t, 2)
	require.NoError(t, s.SetAssessment(FallbackAssessment(DomainPhishing)))

	// No eligible transition yet.
	assert.Equal(t, StatusNotStarted, s.Advance())

	// First answer moves to in_progress.
	_, err := s.RecordDecision(s.DecisionPoints[0].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s.Status)

	// Remaining decision answered but assessment open: still in_progress.
	_, err = s.RecordDecision(s.DecisionPoints[1].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s.Status)

	for i := range s.Assessment {
		require.NoError(t, s.AnswerAssessment(i, s.Assessment[i].CorrectIndex))
	}
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestAdvanceIdempotentOnCompleted(t *testing.T) {
	s := newTestScenario(t, 1)
	_, err := s.RecordDecision(s.DecisionPoints[0].ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, s.Status)

	assert.Equal(t, StatusCompleted, s.Advance())
	assert.Equal(t, StatusCompleted, s.Advance())
}

func TestCompletedIsImmutable(t *testing.T) {
	s := newTestScenario(t, 1)
	dpID := s.DecisionPoints[0].ID
	_, err := s.RecordDecision(dpID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, s.Status)

	err = s.AddDecisionPoints(&DecisionPoint{Prompt: "late", Options: twoOptions(), CorrectIndex: 0})
	assert.ErrorIs(t, err, ErrInvalidState)

	err = s.AddLearningMoment("too late", dpID)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = s.SetAssessment(FallbackAssessment(DomainPhishing))
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.RecordDecision(dpID, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAddLearningMomentUnknownDecision(t *testing.T) {
	s := newTestScenario(t, 1)
	err := s.AddLearningMoment("text", "dp-nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackScenario(t *testing.T) {
	for _, d := range Domains() {
		s := Fallback(d, DifficultyBeginner, "healthcare")
		assert.Equal(t, StatusNotStarted, s.Status, "domain %s", d)
		assert.NotEmpty(t, s.Title, "domain %s", d)
		assert.NotEmpty(t, s.Description, "domain %s", d)
		require.Len(t, s.DecisionPoints, 1)
		dp := s.DecisionPoints[0]
		assert.True(t, dp.CorrectIndex >= 0 && dp.CorrectIndex < len(dp.Options))
	}
}

func TestFallbackAssessmentValid(t *testing.T) {
	s := newTestScenario(t, 0)
	require.NoError(t, s.SetAssessment(FallbackAssessment(DomainRansomware)))
	assert.Len(t, s.Assessment, 3)
}

func TestSetAssessmentAtomic(t *testing.T) {
	s := newTestScenario(t, 0)
	err := s.SetAssessment([]*AssessmentQuestion{
		{Prompt: "ok", Options: []string{"a", "b"}, CorrectIndex: 0},
		{Prompt: "bad", Options: []string{"a", "b"}, CorrectIndex: 9},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Empty(t, s.Assessment)
}

func TestStatusAlwaysEnumerated(t *testing.T) {
	valid := map[Status]bool{StatusNotStarted: true, StatusInProgress: true, StatusCompleted: true}

	for _, d := range Domains() {
		s := Fallback(d, DifficultyIntermediate, "")
		assert.True(t, valid[s.Status])
		s.Advance()
		assert.True(t, valid[s.Status])
	}
}

func TestRecordDecisionErrors(t *testing.T) {
	s := newTestScenario(t, 1)
	dpID := s.DecisionPoints[0].ID

	_, err := s.RecordDecision("dp-missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RecordDecision(dpID, 7)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.False(t, s.DecisionPoints[0].Answered(), "failed record must not mutate")

	_, err = s.RecordDecision(dpID, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRecordDecisionAlreadyAnswered(t *testing.T) {
	// Use 2 points so the scenario stays mutable after the first answer and
	// the re-answer hits ErrAlreadyAnswered, not ErrInvalidState.
	s := newTestScenario(t, 2)
	dpID := s.DecisionPoints[0].ID

	out, err := s.RecordDecision(dpID, 0)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, "that went poorly", out.Feedback)

	_, err = s.RecordDecision(dpID, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyAnswered))
	assert.Equal(t, 0, *s.DecisionPoints[0].Selected, "original answer must survive")
}

func TestDecisionOutcomeFeedbackOnCorrect(t *testing.T) {
	s := newTestScenario(t, 2)
	out, err := s.RecordDecision(s.DecisionPoints[0].ID, 1)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, "that went well", out.Feedback)
}

func TestAnswerAssessmentErrors(t *testing.T) {
	s := newTestScenario(t, 1)
	require.NoError(t, s.SetAssessment(FallbackAssessment(DomainPhishing)))

	assert.ErrorIs(t, s.AnswerAssessment(99, 0), ErrNotFound)
	assert.ErrorIs(t, s.AnswerAssessment(0, 99), ErrIndexOutOfRange)

	require.NoError(t, s.AnswerAssessment(0, 1))
	assert.ErrorIs(t, s.AnswerAssessment(0, 2), ErrAlreadyAnswered)
	assert.Equal(t, 1, *s.Assessment[0].Answer)
}
