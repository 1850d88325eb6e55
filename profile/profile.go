// Package profile tracks learner identity, progress, and skill growth
// across scenarios, with pluggable persistence.
package profile

import (
	"sort"
	"time"

	"github.com/aabdullah27/cybersaga/scenario"
)

// Skill growth tuning. Each completed scenario raises the domain skill by
// overall score fraction times SkillGrowthFactor, capped at MaxSkillLevel.
const (
	MaxSkillLevel     = 5.0
	SkillGrowthFactor = 0.5
)

// PersonalInfo holds the learner attributes used to personalize content.
type PersonalInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Industry        string `json:"industry"`
	Role            string `json:"role"`
	ExperienceLevel string `json:"experience_level"`
}

// Completion records one finished scenario.
type Completion struct {
	ScenarioID       string          `json:"scenario_id"`
	Title            string          `json:"title"`
	Domain           scenario.Domain `json:"domain"`
	CompletedAt      time.Time       `json:"completed_at"`
	PointsEarned     int             `json:"points_earned"`
	CorrectDecisions int             `json:"correct_decisions"`
	TotalDecisions   int             `json:"total_decisions"`
	ScorePercent     float64         `json:"score_percent"`
}

// Progress accumulates performance across sessions.
type Progress struct {
	CompletedScenarios []Completion `json:"completed_scenarios"`
	TotalPoints        int          `json:"total_points"`
	ScenariosStarted   int          `json:"scenarios_started"`
	ScenariosCompleted int          `json:"scenarios_completed"`

	// SkillLevels holds the 0-5 skill score per security domain.
	SkillLevels map[scenario.Domain]float64 `json:"skill_levels"`
}

// Preferences holds learner-chosen session settings.
type Preferences struct {
	Difficulty string   `json:"difficulty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// UserProfile is the persistent record for one learner.
type UserProfile struct {
	UserID      string       `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	LastUpdated time.Time    `json:"last_updated"`
	Personal    PersonalInfo `json:"personal_info"`
	Progress    Progress     `json:"progress"`
	Preferences Preferences  `json:"preferences"`
}

// New creates a fresh profile with zeroed skill levels for every domain.
func New(userID string) *UserProfile {
	now := time.Now()
	skills := make(map[scenario.Domain]float64, len(scenario.Domains()))
	for _, d := range scenario.Domains() {
		skills[d] = 0
	}
	return &UserProfile{
		UserID:      userID,
		CreatedAt:   now,
		LastUpdated: now,
		Personal: PersonalInfo{
			ExperienceLevel: string(scenario.DifficultyBeginner),
		},
		Progress: Progress{
			SkillLevels: skills,
		},
		Preferences: Preferences{
			Difficulty: "adaptive",
		},
	}
}

// UpdatePersonalInfo replaces the learner's personal attributes.
func (p *UserProfile) UpdatePersonalInfo(info PersonalInfo) {
	p.Personal = info
	p.LastUpdated = time.Now()
}

// RecordStart counts a newly started scenario.
func (p *UserProfile) RecordStart() {
	p.Progress.ScenariosStarted++
	p.LastUpdated = time.Now()
}

// RecordCompletion records a finished scenario with its score report and
// raises the domain skill level. Growth per scenario is proportional to the
// overall score and capped at MaxSkillLevel.
func (p *UserProfile) RecordCompletion(s *scenario.Scenario, report scenario.ScoreReport, points int) {
	p.Progress.CompletedScenarios = append(p.Progress.CompletedScenarios, Completion{
		ScenarioID:       s.ID,
		Title:            s.Title,
		Domain:           s.Domain,
		CompletedAt:      time.Now(),
		PointsEarned:     points,
		CorrectDecisions: report.CorrectDecisions,
		TotalDecisions:   report.TotalDecisions,
		ScorePercent:     report.Percent(),
	})
	p.Progress.TotalPoints += points
	p.Progress.ScenariosCompleted++

	if p.Progress.SkillLevels == nil {
		p.Progress.SkillLevels = make(map[scenario.Domain]float64)
	}
	growth := (report.Percent() / 100) * SkillGrowthFactor
	level := p.Progress.SkillLevels[s.Domain] + growth
	if level > MaxSkillLevel {
		level = MaxSkillLevel
	}
	p.Progress.SkillLevels[s.Domain] = level

	p.LastUpdated = time.Now()
}

// mistakesByDomain sums incorrect decisions per domain across completions.
func (p *UserProfile) mistakesByDomain() map[scenario.Domain]int {
	mistakes := make(map[scenario.Domain]int)
	for _, c := range p.Progress.CompletedScenarios {
		mistakes[c.Domain] += c.TotalDecisions - c.CorrectDecisions
	}
	return mistakes
}

// Strengths returns domains where the learner has shown solid performance,
// strongest first.
func (p *UserProfile) Strengths() []string {
	type ranked struct {
		domain scenario.Domain
		level  float64
	}
	var out []ranked
	for d, level := range p.Progress.SkillLevels {
		if level >= 1.0 {
			out = append(out, ranked{d, level})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].level != out[j].level {
			return out[i].level > out[j].level
		}
		return out[i].domain < out[j].domain
	})
	names := make([]string, len(out))
	for i, r := range out {
		names[i] = r.domain.String()
	}
	return names
}

// Gaps returns domains where the learner has made mistakes, most mistakes
// first.
func (p *UserProfile) Gaps() []string {
	mistakes := p.mistakesByDomain()
	type ranked struct {
		domain scenario.Domain
		count  int
	}
	var out []ranked
	for d, n := range mistakes {
		if n > 0 {
			out = append(out, ranked{d, n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].domain < out[j].domain
	})
	names := make([]string, len(out))
	for i, r := range out {
		names[i] = r.domain.String()
	}
	return names
}

// RecommendDomains suggests up to count domains for the next sessions.
// Domains where the learner has made mistakes come first (most mistakes
// first), then domains not yet practiced, then the rest by ascending skill.
func (p *UserProfile) RecommendDomains(count int) []scenario.Domain {
	if count <= 0 {
		return nil
	}

	mistakes := p.mistakesByDomain()
	practiced := make(map[scenario.Domain]bool)
	for _, c := range p.Progress.CompletedScenarios {
		practiced[c.Domain] = true
	}

	domains := scenario.Domains()
	sort.SliceStable(domains, func(i, j int) bool {
		mi, mj := mistakes[domains[i]], mistakes[domains[j]]
		if mi != mj {
			return mi > mj
		}
		pi, pj := practiced[domains[i]], practiced[domains[j]]
		if pi != pj {
			return !pi // unpracticed before practiced
		}
		return p.Progress.SkillLevels[domains[i]] < p.Progress.SkillLevels[domains[j]]
	})

	if count > len(domains) {
		count = len(domains)
	}
	return domains[:count]
}
