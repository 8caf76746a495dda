package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models athena.yml.
type Config struct {
	Model struct {
		Name      string `yaml:"name"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"model"`
	Guide struct {
		// Minimum transcript length before a plan is offered.
		PlanThreshold int `yaml:"plan_threshold"`
		// Substrings in a user turn that request a plan directly.
		PlanKeywords []string `yaml:"plan_keywords"`
		// Sessions idle longer than this are purged.
		IdleMinutes int `yaml:"idle_minutes"`
		// How often the reaper runs.
		SweepMinutes int `yaml:"sweep_minutes"`
	} `yaml:"guide"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.Model.Name = "claude-sonnet-4-20250514"
	c.Model.MaxTokens = 2048
	c.Guide.PlanThreshold = 3
	c.Guide.PlanKeywords = []string{"plan", "steps", "summarize"}
	c.Guide.IdleMinutes = 60
	c.Guide.SweepMinutes = 60
	return c
}

// Path returns the config path for the workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".athena", "athena.yml")
}

// Load reads config from the workspace, falling back to defaults when the file is absent.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates a config document. Unset fields keep defaults.
func FromYAML(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("config.model.name is required")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config.model.max_tokens must be positive")
	}
	if c.Guide.PlanThreshold < 1 {
		return fmt.Errorf("config.guide.plan_threshold must be at least 1")
	}
	if len(c.Guide.PlanKeywords) == 0 {
		return fmt.Errorf("config.guide.plan_keywords must not be empty")
	}
	for _, kw := range c.Guide.PlanKeywords {
		if kw == "" {
			return fmt.Errorf("config.guide.plan_keywords has an empty entry")
		}
	}
	if c.Guide.IdleMinutes < 1 {
		return fmt.Errorf("config.guide.idle_minutes must be at least 1")
	}
	if c.Guide.SweepMinutes < 1 {
		return fmt.Errorf("config.guide.sweep_minutes must be at least 1")
	}
	return nil
}

// IdleWindow returns the idle expiry window as a duration.
func (c *Config) IdleWindow() time.Duration {
	return time.Duration(c.Guide.IdleMinutes) * time.Minute
}

// SweepInterval returns the reaper cadence as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Guide.SweepMinutes) * time.Minute
}
