package config

import (
	"errors"
	"fmt"
	"os"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath  = "configs/validator.yaml"
	DefaultProvider    = "huggingface"
	DefaultModelID     = "google/gemma-2-9b-it"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.1
	DefaultMaxAttempts = 3
)

var ErrConfigNotFound = errors.New("config file not found")

// LoadConfig reads the YAML file at path, or at VALIDATOR_CONFIG_PATH /
// configs/validator.yaml when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VALIDATOR_CONFIG_PATH")
	}
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration with an empty case catalog.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	v := &cfg.Validator
	if v.Provider == "" {
		v.Provider = DefaultProvider
	}
	if v.ModelID == "" && v.Provider == DefaultProvider {
		v.ModelID = DefaultModelID
	}
	if v.MaxTokens == 0 {
		v.MaxTokens = DefaultMaxTokens
	}
	if v.Temperature == nil {
		t := DefaultTemperature
		v.Temperature = &t
	}
	if v.MaxAttempts == 0 {
		v.MaxAttempts = DefaultMaxAttempts
	}
	if v.RetryDelay == 0 {
		v.RetryDelay = time.Second
	}
}

func (c *Config) Validate() error {
	v := c.Validator
	// Request parameters are fixed; the file may only restate them.
	if v.MaxTokens != 0 && v.MaxTokens != DefaultMaxTokens {
		return fmt.Errorf("max_tokens is fixed at %d, got %d", DefaultMaxTokens, v.MaxTokens)
	}
	if v.Temperature != nil && *v.Temperature != DefaultTemperature {
		return fmt.Errorf("temperature is fixed at %.1f, got %g", DefaultTemperature, *v.Temperature)
	}
	if v.MaxAttempts < 0 || v.MaxAttempts > DefaultMaxAttempts {
		return fmt.Errorf("max_attempts must be between 1 and %d, got %d", DefaultMaxAttempts, v.MaxAttempts)
	}
	if v.RetryDelay < 0 {
		return fmt.Errorf("negative retry_delay: %s", v.RetryDelay)
	}
	if v.PromptTemplate != "" {
		if _, err := template.New("prompt").Parse(v.PromptTemplate); err != nil {
			return fmt.Errorf("invalid prompt template: %w", err)
		}
	}

	seen := make(map[string]bool, len(c.Cases))
	for i, cs := range c.Cases {
		if cs.ID == "" {
			return fmt.Errorf("case %d: missing id", i)
		}
		if seen[cs.ID] {
			return fmt.Errorf("duplicate case id: %s", cs.ID)
		}
		seen[cs.ID] = true
		if cs.ContextSummary == "" {
			return fmt.Errorf("case %s: missing context_summary", cs.ID)
		}
	}

	return nil
}
