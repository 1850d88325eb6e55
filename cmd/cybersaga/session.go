package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aabdullah27/cybersaga/agent"
	"github.com/aabdullah27/cybersaga/certificate"
	"github.com/aabdullah27/cybersaga/config"
	"github.com/aabdullah27/cybersaga/profile"
	"github.com/aabdullah27/cybersaga/scenario"
)

// Session drives one learner's interactive training run. All state lives on
// the session instance; nothing is shared between concurrent sessions.
type Session struct {
	agent    *agent.Agent
	store    profile.Store
	renderer *certificate.Renderer
	cfg      *config.Config
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger
}

// NewSession creates a session reading prompts from in and writing to out.
func NewSession(ag *agent.Agent, store profile.Store, renderer *certificate.Renderer,
	cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		agent:    ag,
		store:    store,
		renderer: renderer,
		cfg:      cfg,
		in:       bufio.NewScanner(in),
		out:      out,
		logger:   logger,
	}
}

// Run executes the session loop for a user until they quit or input ends.
func (s *Session) Run(ctx context.Context, userID string) error {
	p, err := profile.LoadOrCreate(ctx, s.store, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	if p.Personal.Name == "" {
		if err := s.onboard(p); err != nil {
			return err
		}
		if err := s.store.Save(ctx, p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}

	s.printf("\nWelcome back, %s.\n", p.Personal.Name)

	for {
		s.printf("\nWhat would you like to do?\n")
		s.printf("  1. Start a training scenario\n")
		s.printf("  2. View your progress\n")
		s.printf("  3. Get learning recommendations\n")
		s.printf("  4. Quit\n")

		choice, err := s.askInt("Choice", 1, 4)
		if err != nil {
			// Input exhausted; treat as a clean exit.
			return nil
		}

		switch choice {
		case 1:
			if err := s.runScenario(ctx, p); err != nil {
				return err
			}
		case 2:
			s.showProgress(p)
		case 3:
			s.showRecommendations(ctx, p)
		case 4:
			s.printf("Stay vigilant. Goodbye!\n")
			return nil
		}
	}
}

// onboard collects the learner attributes used to personalize content.
func (s *Session) onboard(p *profile.UserProfile) error {
	s.printf("Let's set up your profile.\n")

	name, err := s.ask("Your name")
	if err != nil {
		return err
	}
	industry, err := s.ask("Your industry (e.g. finance, healthcare)")
	if err != nil {
		return err
	}
	role, err := s.ask("Your role (e.g. analyst, manager)")
	if err != nil {
		return err
	}

	s.printf("Experience level:\n  1. beginner\n  2. intermediate\n  3. advanced\n")
	lvl, err := s.askInt("Level", 1, 3)
	if err != nil {
		return err
	}
	levels := []string{"beginner", "intermediate", "advanced"}

	p.UpdatePersonalInfo(profile.PersonalInfo{
		Name:            name,
		Industry:        industry,
		Role:            role,
		ExperienceLevel: levels[lvl-1],
	})
	return nil
}

// runScenario plays one full scenario: narrative, decisions, assessment,
// scoring, and the optional certificate.
func (s *Session) runScenario(ctx context.Context, p *profile.UserProfile) error {
	domain, err := s.pickDomain(p)
	if err != nil {
		return nil
	}

	prof := agent.ProfileContext{
		Industry:        p.Personal.Industry,
		Role:            p.Personal.Role,
		ExperienceLevel: p.Personal.ExperienceLevel,
		Domain:          domain.String(),
	}

	s.printf("\nGenerating your scenario...\n")
	result := s.agent.GenerateScenario(ctx, prof)
	sc := result.Scenario
	if result.Degraded {
		s.printf("(Generation is unavailable; playing a built-in scenario.)\n")
	}

	p.RecordStart()
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.printf("\n=== %s ===\n%s\n", sc.Title, sc.Description)

	if len(sc.DecisionPoints) == 0 {
		if degraded, err := s.agent.PopulateDecisionPoints(ctx, sc, prof, s.cfg.Content.DecisionPoints); err != nil {
			return fmt.Errorf("prepare decision points: %w", err)
		} else if degraded {
			s.printf("(Using built-in decision points.)\n")
		}
	}
	if len(sc.Assessment) == 0 {
		if degraded, err := s.agent.GenerateAssessment(ctx, sc, prof, s.cfg.Content.AssessmentQuestions); err != nil {
			return fmt.Errorf("prepare assessment: %w", err)
		} else if degraded {
			s.printf("(Using built-in assessment questions.)\n")
		}
	}

	if err := s.playDecisions(ctx, sc); err != nil {
		return err
	}
	if err := s.playAssessment(sc); err != nil {
		return err
	}

	report, err := sc.Score(s.cfg.Scoring.Weights())
	if err != nil {
		return fmt.Errorf("score scenario: %w", err)
	}
	s.printReport(report)

	points := int(report.Percent() + 0.5)
	p.RecordCompletion(sc, report, points)
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if s.askYesNo("Generate a completion certificate?") {
		s.writeCertificate(p, sc, report)
	}
	return nil
}

// pickDomain presents the security domains with the learner's recommended
// ones first.
func (s *Session) pickDomain(p *profile.UserProfile) (scenario.Domain, error) {
	domains := p.RecommendDomains(len(scenario.Domains()))

	s.printf("\nPick a security domain (recommended first):\n")
	for i, d := range domains {
		s.printf("  %d. %s\n", i+1, d)
	}

	choice, err := s.askInt("Domain", 1, len(domains))
	if err != nil {
		return "", err
	}
	return domains[choice-1], nil
}

func (s *Session) playDecisions(ctx context.Context, sc *scenario.Scenario) error {
	for i, dp := range sc.DecisionPoints {
		s.printf("\nDecision %d of %d: %s\n", i+1, len(sc.DecisionPoints), dp.Prompt)
		for j, opt := range dp.Options {
			s.printf("  %d. %s\n", j+1, opt.Label)
		}

		choice, err := s.askInt("Your choice", 1, len(dp.Options))
		if err != nil {
			return fmt.Errorf("input ended mid-scenario")
		}

		outcome, err := sc.RecordDecision(dp.ID, choice-1)
		if err != nil {
			return fmt.Errorf("record decision: %w", err)
		}

		if outcome.Correct {
			s.printf("\n✓ Correct. %s\n", outcome.Feedback)
		} else {
			s.printf("\n✗ Not the best choice. %s\n", outcome.Feedback)
		}

		analysis, degraded := s.agent.FeedbackFor(ctx, sc, dp)
		if !degraded {
			s.printf("\nAnalysis: %s\n", analysis)
		}

		moment, _, err := s.agent.LearningMomentFor(ctx, sc, dp.ID)
		if err == nil {
			s.printf("\nLearning moment: %s\n", moment)
		}
	}
	return nil
}

func (s *Session) playAssessment(sc *scenario.Scenario) error {
	if len(sc.Assessment) == 0 {
		return nil
	}

	s.printf("\n--- Knowledge Assessment ---\n")
	for i, q := range sc.Assessment {
		s.printf("\nQuestion %d of %d: %s\n", i+1, len(sc.Assessment), q.Prompt)
		for j, opt := range q.Options {
			s.printf("  %d. %s\n", j+1, opt)
		}

		choice, err := s.askInt("Your answer", 1, len(q.Options))
		if err != nil {
			return fmt.Errorf("input ended mid-assessment")
		}
		if err := sc.AnswerAssessment(i, choice-1); err != nil {
			return fmt.Errorf("record answer: %w", err)
		}

		if q.Correct() {
			s.printf("✓ Correct.")
		} else {
			s.printf("✗ Incorrect. The right answer was: %s.", q.Options[q.CorrectIndex])
		}
		if q.Explanation != "" {
			s.printf(" %s", q.Explanation)
		}
		s.printf("\n")
	}
	return nil
}

func (s *Session) printReport(r scenario.ScoreReport) {
	s.printf("\n=== Scenario Complete ===\n")
	s.printf("Decisions: %d/%d correct\n", r.CorrectDecisions, r.TotalDecisions)
	s.printf("Assessment: %d/%d correct\n", r.CorrectAnswers, r.TotalQuestions)
	s.printf("Overall score: %.0f%%\n", r.Percent())
}

func (s *Session) showProgress(p *profile.UserProfile) {
	s.printf("\n=== Your Progress ===\n")
	s.printf("Scenarios started: %d, completed: %d\n",
		p.Progress.ScenariosStarted, p.Progress.ScenariosCompleted)
	s.printf("Total points: %d\n", p.Progress.TotalPoints)

	s.printf("Skill levels:\n")
	for _, d := range scenario.Domains() {
		s.printf("  %-20s %.1f / %.0f\n", d, p.Progress.SkillLevels[d], profile.MaxSkillLevel)
	}

	if len(p.Progress.CompletedScenarios) > 0 {
		s.printf("Recent completions:\n")
		recent := p.Progress.CompletedScenarios
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		for _, c := range recent {
			s.printf("  %s (%s): %.0f%%\n", c.Title, c.Domain, c.ScorePercent)
		}
	}
}

func (s *Session) showRecommendations(ctx context.Context, p *profile.UserProfile) {
	prof := agent.ProfileContext{
		Industry:        p.Personal.Industry,
		Role:            p.Personal.Role,
		ExperienceLevel: p.Personal.ExperienceLevel,
	}

	text, degraded := s.agent.RecommendationsFor(ctx, prof, p.Strengths(), p.Gaps())
	if degraded {
		s.printf("\n(Personalized recommendations are unavailable; showing general guidance.)\n")
	}
	s.printf("\n%s\n", text)

	s.printf("\nSuggested next domains:\n")
	for i, d := range p.RecommendDomains(3) {
		s.printf("  %d. %s\n", i+1, d)
	}
}

// writeCertificate renders the completion certificate next to the profile
// data. Failures are reported but never abort the session.
func (s *Session) writeCertificate(p *profile.UserProfile, sc *scenario.Scenario, r scenario.ScoreReport) {
	name := p.Personal.Name
	if name == "" {
		name = p.UserID
	}

	data, err := s.renderer.Render(certificate.Details{
		UserName:      name,
		ScenarioTitle: sc.Title,
		ScorePercent:  r.Percent(),
		CompletedAt:   time.Now(),
	})
	if err != nil {
		s.printf("Could not render certificate: %v\n", err)
		return
	}

	path := filepath.Join(s.cfg.Profiles.Dir, fmt.Sprintf("certificate-%s.png", sc.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.printf("Could not save certificate: %v\n", err)
		return
	}
	s.printf("Certificate saved to %s\n", path)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// ask reads one non-empty line of input.
func (s *Session) ask(prompt string) (string, error) {
	for {
		s.printf("%s: ", prompt)
		if !s.in.Scan() {
			return "", io.EOF
		}
		text := strings.TrimSpace(s.in.Text())
		if text != "" {
			return text, nil
		}
	}
}

// askInt reads an integer in [min, max], re-prompting on bad input.
func (s *Session) askInt(prompt string, min, max int) (int, error) {
	for {
		text, err := s.ask(fmt.Sprintf("%s [%d-%d]", prompt, min, max))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < min || n > max {
			s.printf("Please enter a number between %d and %d.\n", min, max)
			continue
		}
		return n, nil
	}
}

// askYesNo reads a y/n answer, defaulting to no on EOF.
func (s *Session) askYesNo(prompt string) bool {
	for {
		text, err := s.ask(fmt.Sprintf("%s (y/n)", prompt))
		if err != nil {
			return false
		}
		switch strings.ToLower(text) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
