// Package config handles configuration loading and validation for redline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied before the config file and environment are read.
const (
	DefaultBackendURL = "http://localhost:8000"
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModelName  = "gpt-4o"
)

// Config holds the application configuration. Settings is the credential
// block every session start receives explicitly; nothing in the protocol
// core reads ambient configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
	LogLevel string   `yaml:"log_level"`
	LogFile  string   `yaml:"log_file"`
}

// Settings are the four values a review session needs. All four must be
// non-empty for a session to be startable.
type Settings struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	ModelName  string `yaml:"model_name"`
	BackendURL string `yaml:"backend_url"`
}

// Complete reports whether every field required to start a session is set.
func (s Settings) Complete() bool {
	return s.APIKey != "" && s.BaseURL != "" && s.ModelName != "" && s.BackendURL != ""
}

// DefaultConfig returns a Config with sensible defaults. The API key has no
// default; it must come from the config file or environment.
func DefaultConfig() Config {
	return Config{
		Settings: Settings{
			BaseURL:    DefaultBaseURL,
			ModelName:  DefaultModelName,
			BackendURL: DefaultBackendURL,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the given path, then applies environment
// overrides (REDLINE_API_KEY, REDLINE_BASE_URL, REDLINE_MODEL_NAME,
// REDLINE_BACKEND_URL). A missing config file is not an error; defaults are
// used.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	return &cfg, nil
}

// Save writes the configuration to path as yaml, creating the file with
// owner-only permissions since it carries an API key.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REDLINE_API_KEY"); v != "" {
		cfg.Settings.APIKey = v
	}
	if v := os.Getenv("REDLINE_BASE_URL"); v != "" {
		cfg.Settings.BaseURL = v
	}
	if v := os.Getenv("REDLINE_MODEL_NAME"); v != "" {
		cfg.Settings.ModelName = v
	}
	if v := os.Getenv("REDLINE_BACKEND_URL"); v != "" {
		cfg.Settings.BackendURL = v
	}
}
