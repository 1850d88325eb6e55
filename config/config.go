// Package config provides configuration loading and management for CyberSaga.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aabdullah27/cybersaga/scenario"
)

// Config represents the complete CyberSaga configuration
type Config struct {
	Model       ModelConfig       `yaml:"model"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Content     ContentConfig     `yaml:"content"`
	Profiles    ProfilesConfig    `yaml:"profiles"`
	Certificate CertificateConfig `yaml:"certificate"`
	NATS        NATSConfig        `yaml:"nats"`
}

// ModelConfig configures the LLM settings
type ModelConfig struct {
	// Default is the registry endpoint used when no capability resolves
	// (default: "groq-llama70b")
	Default string `yaml:"default"`
	// Endpoint overrides the default endpoint URL (empty = per-provider default)
	Endpoint string `yaml:"endpoint"`
	// Temperature controls randomness (0.0-1.0, default: 0.7)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// ScoringConfig configures how scenario scores are weighted
type ScoringConfig struct {
	// DecisionWeight is the share of the overall score earned from decision
	// points. AssessmentWeight covers the knowledge check. They must sum to 1.
	DecisionWeight   float64 `yaml:"decision_weight"`
	AssessmentWeight float64 `yaml:"assessment_weight"`
}

// Weights converts the scoring section into scenario weights.
func (s ScoringConfig) Weights() scenario.Weights {
	return scenario.Weights{Decision: s.DecisionWeight, Assessment: s.AssessmentWeight}
}

// ContentConfig configures generated scenario content
type ContentConfig struct {
	// DecisionPoints is the number of decision points generated per scenario
	DecisionPoints int `yaml:"decision_points"`
	// AssessmentQuestions is the number of knowledge-check questions
	AssessmentQuestions int `yaml:"assessment_questions"`
}

// ProfilesConfig configures user profile persistence
type ProfilesConfig struct {
	// Backend selects the store: "file" (default) or "nats"
	Backend string `yaml:"backend"`
	// Dir is where the file backend keeps profile JSON (default: ./profiles)
	Dir string `yaml:"dir"`
}

// CertificateConfig configures certificate rendering
type CertificateConfig struct {
	// FontPath names a TTF file for certificate text (empty = built-in face)
	FontPath string `yaml:"font_path"`
}

// NATSConfig configures the NATS connection for the nats profile backend
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Default:     "groq-llama70b",
			Endpoint:    "",
			Temperature: 0.7,
			Timeout:     3 * time.Minute,
		},
		Scoring: ScoringConfig{
			DecisionWeight:   scenario.DefaultDecisionWeight,
			AssessmentWeight: scenario.DefaultAssessmentWeight,
		},
		Content: ContentConfig{
			DecisionPoints:      3,
			AssessmentQuestions: 5,
		},
		Profiles: ProfilesConfig{
			Backend: "file",
			Dir:     "profiles",
		},
		Certificate: CertificateConfig{
			FontPath: "",
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Default == "" {
		return fmt.Errorf("model.default is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if err := c.Scoring.Weights().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Content.DecisionPoints < 1 {
		return fmt.Errorf("content.decision_points must be at least 1")
	}
	if c.Content.AssessmentQuestions < 1 {
		return fmt.Errorf("content.assessment_questions must be at least 1")
	}
	switch c.Profiles.Backend {
	case "file", "nats":
	default:
		return fmt.Errorf("profiles.backend must be \"file\" or \"nats\", got %q", c.Profiles.Backend)
	}
	if c.Profiles.Backend == "nats" && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required for the nats profile backend")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. ${VAR} references in
// the file are expanded from the environment before parsing.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Model
	if other.Model.Default != "" {
		c.Model.Default = other.Model.Default
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Scoring: both weights move together so they keep summing to 1
	if other.Scoring.DecisionWeight != 0 || other.Scoring.AssessmentWeight != 0 {
		c.Scoring = other.Scoring
	}

	// Content
	if other.Content.DecisionPoints != 0 {
		c.Content.DecisionPoints = other.Content.DecisionPoints
	}
	if other.Content.AssessmentQuestions != 0 {
		c.Content.AssessmentQuestions = other.Content.AssessmentQuestions
	}

	// Profiles
	if other.Profiles.Backend != "" {
		c.Profiles.Backend = other.Profiles.Backend
	}
	if other.Profiles.Dir != "" {
		c.Profiles.Dir = other.Profiles.Dir
	}

	// Certificate
	if other.Certificate.FontPath != "" {
		c.Certificate.FontPath = other.Certificate.FontPath
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
