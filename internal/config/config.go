// Package config holds all mithaq configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all mithaq configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Generation defaults
	Generation GenerationConfig `yaml:"generation"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the model gateway.
type LLMConfig struct {
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"base_url"`
	Timeout         string `yaml:"timeout"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

// GenerationConfig configures generation defaults.
type GenerationConfig struct {
	// Default sampling temperature for generation calls.
	Temperature float64 `yaml:"temperature"`

	// Default number of documents per batch.
	Count int `yaml:"count"`

	// Recovery session time-to-live.
	SessionTTL string `yaml:"session_ttl"`
}

// StorageConfig configures the key-value store backing the history.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mithaq",
		Version: "1.0.0",

		LLM: LLMConfig{
			Model:           "gemini-2.5-pro",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Timeout:         "10m",
			MaxOutputTokens: 65536,
		},

		Generation: GenerationConfig{
			Temperature: 1.0,
			Count:       1,
			SessionTTL:  "1h",
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(".mithaq", "mithaq.db"),
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from the given path, falling back to defaults for
// anything unset. A missing file is not an error; environment overrides are
// applied last either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("MITHAQ_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("MITHAQ_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("MITHAQ_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// Timeout returns the parsed LLM timeout, defaulting to 10 minutes.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// SessionTTL returns the parsed recovery-session TTL, defaulting to 1 hour.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Generation.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
