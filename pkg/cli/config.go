package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the user-editable dashboard settings loaded from
// config.yaml in the config directory.
type AppConfig struct {
	// Endpoint is the quotes service base URL.
	Endpoint string `yaml:"endpoint"`
	// DelayMS is the pacing delay between pipeline steps in milliseconds.
	DelayMS int `yaml:"delay_ms"`
	// TimeoutSeconds bounds each step's HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Topics are the topic choices offered by the dashboard selector.
	Topics []string `yaml:"topics"`
	// Counts are the per-step quote count choices.
	Counts []int `yaml:"counts"`
	// Filter is an optional quote filter expression applied to every
	// step's payload, e.g. `length < 120 && source != ""`.
	Filter string `yaml:"filter"`
	// HistoryLimit caps how many runs the history command lists by default.
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultAppConfig returns the settings used on first run.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Endpoint:       "http://localhost:8640",
		DelayMS:        900,
		TimeoutSeconds: 30,
		Topics:         []string{"inspiration", "engineering", "science", "humor"},
		Counts:         []int{1, 3, 5},
		HistoryLimit:   20,
	}
}

// LoadAppConfig reads the app configuration from the given path, filling in
// defaults for any omitted fields.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultAppConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// WriteDefaultAppConfig writes the default configuration to the given path.
func WriteDefaultAppConfig(path string) error {
	data, err := yaml.Marshal(DefaultAppConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the dashboard cannot run with.
func (c *AppConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config: endpoint cannot be empty")
	}
	if c.DelayMS < 0 {
		return fmt.Errorf("config: delay_ms cannot be negative")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive")
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("config: at least one topic is required")
	}
	for _, count := range c.Counts {
		if count <= 0 {
			return fmt.Errorf("config: counts must be positive, got %d", count)
		}
	}
	if len(c.Counts) == 0 {
		return fmt.Errorf("config: at least one count is required")
	}
	return nil
}

// Delay returns the pacing delay as a duration.
func (c *AppConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Timeout returns the HTTP timeout as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
