package config

import (
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

// Config represents the validator configuration file
type Config struct {
	Validator ValidatorConfig `yaml:"validator"`
	Cases     []Case          `yaml:"cases"`
}

// ValidatorConfig holds the model parameters and retry budget
type ValidatorConfig struct {
	Provider       string        `yaml:"provider"`
	ModelID        string        `yaml:"model_id"`
	MaxTokens      int           `yaml:"max_tokens"`
	Temperature    *float64      `yaml:"temperature"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	PromptTemplate string        `yaml:"prompt_template"`
}

// Case is one clinical scenario of the catalog
type Case struct {
	ID             string       `yaml:"id" json:"id"`
	Title          string       `yaml:"title" json:"title"`
	ContextSummary string       `yaml:"context_summary" json:"context_summary"`
	Rules          models.Rules `yaml:"rules" json:"rules"`
}

// Request builds the validation request for a student's action on this case.
func (c Case) Request(studentText string) models.ValidationRequest {
	return models.ValidationRequest{
		StudentText:    studentText,
		Rules:          c.Rules,
		ContextSummary: c.ContextSummary,
	}
}
