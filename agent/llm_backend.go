package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aabdullah27/cybersaga/llm"
	"github.com/aabdullah27/cybersaga/model"
	"github.com/aabdullah27/cybersaga/prompts"
)

// LLMBackend implements Backend over the capability-routed LLM client.
// Retry, backoff, and model fallback live in the client; this layer only
// picks capabilities and prompts.
type LLMBackend struct {
	client *llm.Client
	logger *slog.Logger
}

// LLMBackendOption configures an LLMBackend.
type LLMBackendOption func(*LLMBackend)

// WithBackendLogger sets the logger.
func WithBackendLogger(logger *slog.Logger) LLMBackendOption {
	return func(b *LLMBackend) {
		b.logger = logger
	}
}

// NewLLMBackend creates a Backend over the given LLM client.
func NewLLMBackend(client *llm.Client, opts ...LLMBackendOption) *LLMBackend {
	b := &LLMBackend{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// complete runs one completion with the system persona attached.
func (b *LLMBackend) complete(ctx context.Context, contentType, userPrompt string) (string, error) {
	capability := model.CapabilityForContent(contentType)

	resp, err := b.client.Complete(ctx, llm.Request{
		Capability: capability.String(),
		Messages: []llm.Message{
			{Role: "system", Content: prompts.SystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		b.logger.Warn("Generation failed",
			"content_type", contentType,
			"capability", capability,
			"error", err)
		return "", fmt.Errorf("%s generation: %w: %w", contentType, ErrGenerationUnavailable, err)
	}

	b.logger.Debug("Generation complete",
		"content_type", contentType,
		"model", resp.Model,
		"request_id", resp.RequestID,
		"tokens", resp.Usage.TotalTokens)

	return resp.Content, nil
}

// ScenarioNarrative generates a scenario title and opening narrative.
func (b *LLMBackend) ScenarioNarrative(ctx context.Context, prof ProfileContext) (string, error) {
	return b.complete(ctx, "scenario",
		prompts.Scenario(prof.Domain, prof.ExperienceLevel, prof.Industry, prof.Role))
}

// DecisionPoints generates count decision points for a scenario.
func (b *LLMBackend) DecisionPoints(ctx context.Context, sc ScenarioContext, prof ProfileContext, count int) (string, error) {
	return b.complete(ctx, "decision_points",
		prompts.DecisionPoints(sc.Title, sc.Domain, sc.Industry, prof.Role, sc.Difficulty, count))
}

// DecisionFeedback generates an analysis of a recorded decision.
func (b *LLMBackend) DecisionFeedback(ctx context.Context, sc ScenarioContext, dc DecisionContext, wasCorrect bool) (string, error) {
	return b.complete(ctx, "feedback",
		prompts.Feedback(sc.Description, dc.Chosen, wasCorrect))
}

// LearningMoment generates educational content for a scenario domain.
func (b *LLMBackend) LearningMoment(ctx context.Context, sc ScenarioContext) (string, error) {
	return b.complete(ctx, "learning_moment",
		prompts.LearningMoment(sc.Description, sc.Domain))
}

// Assessment generates a knowledge assessment.
func (b *LLMBackend) Assessment(ctx context.Context, sc ScenarioContext, prof ProfileContext, numQuestions int) (string, error) {
	return b.complete(ctx, "assessment",
		prompts.Assessment(sc.Title, sc.Domain, sc.Industry, prof.Role, prof.ExperienceLevel, numQuestions))
}

// Recommendations generates personalized learning recommendations.
func (b *LLMBackend) Recommendations(ctx context.Context, prof ProfileContext, strengths, gaps []string) (string, error) {
	return b.complete(ctx, "recommendations",
		prompts.Recommendations(strengths, gaps, prof.Industry, prof.Role))
}
