package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/config"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/validator"
	"github.com/rs/zerolog"
)

// Validator runs one validation call
//
//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks . Validator,CaseCatalog
type Validator interface {
	ValidateDetailed(ctx context.Context, req models.ValidationRequest) validator.Outcome
}

// CaseCatalog resolves case identifiers to rules and context
type CaseCatalog interface {
	Get(id string) (config.Case, error)
}

// Executor turns validation events from the stream and batch runners into outcomes.
type Executor struct {
	validator Validator
	catalog   CaseCatalog
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewExecutor(validator Validator, catalog CaseCatalog, logger *zerolog.Logger) *Executor {
	return &Executor{
		validator: validator,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

func (e *Executor) Execute(ctx context.Context, event models.ValidationEvent) models.ValidationOutcome {
	outcome := models.ValidationOutcome{
		EventID: event.EventID,
		CaseID:  event.CaseID,
	}

	request, err := e.resolve(event)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("request_id", event.EventID).
			Str("case_id", event.CaseID).
			Msg("rejected validation event")

		outcome.Result = models.FallbackResult()
		outcome.Fallback = true
		outcome.Error = err.Error()
		outcome.ValidatedAt = e.now().UTC()
		return outcome
	}

	e.logger.Info().
		Str("request_id", event.EventID).
		Str("case_id", event.CaseID).
		Msg("starting validation")

	result := e.validator.ValidateDetailed(ctx, request)

	outcome.Result = result.Result
	outcome.Fallback = result.Fallback
	if result.Fallback && result.LastErr != nil {
		outcome.Error = result.LastErr.Error()
	}
	outcome.ValidatedAt = e.now().UTC()

	e.logger.Info().
		Str("request_id", event.EventID).
		Int("attempts", result.Attempts).
		Bool("fallback", result.Fallback).
		Bool("safety_violation", result.Result.SafetyViolation).
		Msg("validation complete")

	return outcome
}

// resolve fills rules and context from the catalog when the event names a
// case. A context summary carried by the event wins over the case's.
func (e *Executor) resolve(event models.ValidationEvent) (models.ValidationRequest, error) {
	request := event.Request

	if event.CaseID != "" {
		if e.catalog == nil {
			return models.ValidationRequest{}, fmt.Errorf("case %q: %w", event.CaseID, config.ErrCaseNotFound)
		}
		clinicalCase, err := e.catalog.Get(event.CaseID)
		if err != nil {
			return models.ValidationRequest{}, err
		}

		resolved := clinicalCase.Request(request.StudentText)
		if request.ContextSummary != "" {
			resolved.ContextSummary = request.ContextSummary
		}
		request = resolved
	}

	if err := request.Validate(); err != nil {
		return models.ValidationRequest{}, err
	}
	return request, nil
}
