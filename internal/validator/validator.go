package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/llm"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

// Every model call uses these parameters.
const (
	MaxOutputTokens = 500
	Temperature     = 0.1
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

var ErrAttemptBudget = fmt.Errorf("max attempts must be between 1 and %d", DefaultMaxAttempts)

// Config holds the retry budget. MaxAttempts may lower the budget, never raise it.
type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
	// PromptTemplate overrides DefaultPromptTemplate when set.
	PromptTemplate string
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Outcome describes how a validation call ended.
type Outcome struct {
	Result   models.ValidationResult
	Attempts int
	Fallback bool
	// LastErr is the error of the final failed attempt, nil on success.
	LastErr error
}

// Validator checks a student's clinical decision against case rules using a
// hosted text-generation model. It is safe for concurrent use.
type Validator struct {
	llmClient llm.LLMClient
	prompts   *PromptBuilder
	cfg       Config
	logger    *zerolog.Logger
}

func NewValidator(llmClient llm.LLMClient, cfg Config, logger *zerolog.Logger) (*Validator, error) {
	if llmClient == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxAttempts > DefaultMaxAttempts {
		return nil, fmt.Errorf("%w: got %d", ErrAttemptBudget, cfg.MaxAttempts)
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}

	prompts, err := NewPromptBuilder(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	return &Validator{
		llmClient: llmClient,
		prompts:   prompts,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Validate never fails: once the retry budget is spent it returns
// models.FallbackResult().
func (v *Validator) Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult {
	return v.ValidateDetailed(ctx, req).Result
}

func (v *Validator) ValidateDetailed(ctx context.Context, req models.ValidationRequest) Outcome {
	now := time.Now()

	prompt, err := v.prompts.Build(req)
	if err != nil {
		v.logger.Error().Err(err).Msg("failed to build validation prompt")
		return Outcome{Result: models.FallbackResult(), Fallback: true, LastErr: err}
	}

	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= v.cfg.MaxAttempts; attempt++ {
		result, err := v.attempt(ctx, request)
		if err == nil {
			v.logger.Info().
				Int("attempt", attempt).
				Bool("is_clinically_accurate", result.IsClinicallyAccurate).
				Bool("safety_violation", result.SafetyViolation).
				Dur("duration", time.Since(now)).
				Msg("validation completed")
			return Outcome{Result: result, Attempts: attempt}
		}

		lastErr = err
		v.logger.Warn().
			Err(err).
			Str("failure", failureKind(err)).
			Int("attempt", attempt).
			Int("max_attempts", v.cfg.MaxAttempts).
			Msg("validation attempt failed")

		if attempt == v.cfg.MaxAttempts {
			break
		}

		if err := sleep(ctx, v.cfg.RetryDelay); err != nil {
			v.logger.Warn().Err(err).Int("attempt", attempt).Msg("validation cancelled between attempts")
			return Outcome{Result: models.FallbackResult(), Attempts: attempt, Fallback: true, LastErr: err}
		}
	}

	v.logger.Error().
		Err(lastErr).
		Int("attempts", v.cfg.MaxAttempts).
		Dur("duration", time.Since(now)).
		Msg("all validation attempts failed")

	return Outcome{
		Result:   models.FallbackResult(),
		Attempts: v.cfg.MaxAttempts,
		Fallback: true,
		LastErr:  lastErr,
	}
}

func (v *Validator) attempt(ctx context.Context, request llm.LLMRequest) (models.ValidationResult, error) {
	resp, err := v.llmClient.InvokeModel(ctx, request)
	if err != nil {
		return models.ValidationResult{}, &transportError{err: err}
	}
	if resp == nil {
		return models.ValidationResult{}, &transportError{err: errors.New("empty response")}
	}

	return ParseResult(resp.Content)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "model call failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// failureKind labels an attempt error for logs; callers never see it.
func failureKind(err error) string {
	var te *transportError
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, ErrMissingRequiredKeys):
		return "shape"
	default:
		return "parse"
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
