package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Default != "groq-llama70b" {
		t.Errorf("expected default model groq-llama70b, got %s", cfg.Model.Default)
	}
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %f", cfg.Model.Temperature)
	}
	if cfg.Scoring.DecisionWeight != 0.5 || cfg.Scoring.AssessmentWeight != 0.5 {
		t.Errorf("expected 50/50 scoring weights, got %f/%f",
			cfg.Scoring.DecisionWeight, cfg.Scoring.AssessmentWeight)
	}
	if cfg.Profiles.Backend != "file" {
		t.Errorf("expected file profile backend, got %s", cfg.Profiles.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing model default",
			modify:  func(c *Config) { c.Model.Default = "" },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.Model.Temperature = 1.1 },
			wantErr: true,
		},
		{
			name: "weights do not sum to one",
			modify: func(c *Config) {
				c.Scoring.DecisionWeight = 0.8
				c.Scoring.AssessmentWeight = 0.3
			},
			wantErr: true,
		},
		{
			name:    "negative weight",
			modify:  func(c *Config) { c.Scoring.DecisionWeight = -0.5; c.Scoring.AssessmentWeight = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero decision points",
			modify:  func(c *Config) { c.Content.DecisionPoints = 0 },
			wantErr: true,
		},
		{
			name:    "unknown profile backend",
			modify:  func(c *Config) { c.Profiles.Backend = "redis" },
			wantErr: true,
		},
		{
			name: "nats backend without url",
			modify: func(c *Config) {
				c.Profiles.Backend = "nats"
				c.NATS.URL = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
model:
  default: "gpt-4o-mini"
  temperature: 0.3
  timeout: 10m
scoring:
  decision_weight: 0.6
  assessment_weight: 0.4
content:
  decision_points: 4
profiles:
  backend: nats
  dir: "/var/lib/cybersaga/profiles"
nats:
  url: "nats://test:4222"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Model.Default != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", cfg.Model.Default)
	}
	if cfg.Model.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %f", cfg.Model.Temperature)
	}
	if cfg.Model.Timeout != 10*time.Minute {
		t.Errorf("expected timeout 10m, got %v", cfg.Model.Timeout)
	}
	if cfg.Scoring.DecisionWeight != 0.6 {
		t.Errorf("expected decision weight 0.6, got %f", cfg.Scoring.DecisionWeight)
	}
	if cfg.Content.DecisionPoints != 4 {
		t.Errorf("expected 4 decision points, got %d", cfg.Content.DecisionPoints)
	}
	// Unset fields keep their defaults.
	if cfg.Content.AssessmentQuestions != 5 {
		t.Errorf("expected default 5 assessment questions, got %d", cfg.Content.AssessmentQuestions)
	}
	if cfg.Profiles.Backend != "nats" {
		t.Errorf("expected nats backend, got %s", cfg.Profiles.Backend)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
}

func TestLoadFromFileExpandsEnv(t *testing.T) {
	t.Setenv("CYBERSAGA_TEST_DIR", "/data/profiles")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
profiles:
  dir: "${CYBERSAGA_TEST_DIR}"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Profiles.Dir != "/data/profiles" {
		t.Errorf("expected expanded profiles dir, got %s", cfg.Profiles.Dir)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Model: ModelConfig{
			Default: "override-model",
		},
		Scoring: ScoringConfig{
			DecisionWeight:   0.7,
			AssessmentWeight: 0.3,
		},
		Profiles: ProfilesConfig{
			Dir: "/override/profiles",
		},
	}

	base.Merge(override)

	if base.Model.Default != "override-model" {
		t.Errorf("expected model override-model, got %s", base.Model.Default)
	}
	// Temperature should remain from base since override didn't set it
	if base.Model.Temperature != 0.7 {
		t.Errorf("expected temperature to remain default, got %f", base.Model.Temperature)
	}
	if base.Scoring.DecisionWeight != 0.7 || base.Scoring.AssessmentWeight != 0.3 {
		t.Errorf("expected merged weights 0.7/0.3, got %f/%f",
			base.Scoring.DecisionWeight, base.Scoring.AssessmentWeight)
	}
	if base.Profiles.Dir != "/override/profiles" {
		t.Errorf("expected profiles dir /override/profiles, got %s", base.Profiles.Dir)
	}
	if base.Profiles.Backend != "file" {
		t.Errorf("expected backend to remain file, got %s", base.Profiles.Backend)
	}
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// User config overrides one field.
	userCfg := filepath.Join(home, UserConfigDir, UserConfigFile)
	if err := os.MkdirAll(filepath.Dir(userCfg), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userCfg, []byte("model:\n  default: user-model\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Default != "user-model" {
		t.Errorf("expected user-model from user config, got %s", cfg.Model.Default)
	}
	// Untouched fields keep their defaults.
	if cfg.Profiles.Backend != "file" {
		t.Errorf("expected default profile backend, got %s", cfg.Profiles.Backend)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loader := NewLoader(nil)
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}

	// First call writes the defaults to ~/.config/cybersaga/config.yaml.
	userCfg := filepath.Join(home, UserConfigDir, UserConfigFile)
	written, err := LoadFromFile(userCfg)
	if err != nil {
		t.Fatalf("failed to load created user config: %v", err)
	}
	if written.Model.Default != DefaultConfig().Model.Default {
		t.Errorf("expected default model %s, got %s", DefaultConfig().Model.Default, written.Model.Default)
	}

	// Second call must leave an edited config alone.
	if err := os.WriteFile(userCfg, []byte("model:\n  default: edited-model\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() second call error = %v", err)
	}
	kept, err := LoadFromFile(userCfg)
	if err != nil {
		t.Fatal(err)
	}
	if kept.Model.Default != "edited-model" {
		t.Errorf("existing user config was overwritten, got model %s", kept.Model.Default)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Model.Default = "saved-model"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Model.Default != "saved-model" {
		t.Errorf("expected model saved-model, got %s", loaded.Model.Default)
	}
}
