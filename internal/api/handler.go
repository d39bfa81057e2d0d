package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/config"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

// ClinicalValidator validates one student action.
type ClinicalValidator interface {
	Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult
}

type CaseCatalog interface {
	Get(id string) (config.Case, error)
	List() []config.Case
}

// OutcomeStore reads the audit trail written by the stream worker.
type OutcomeStore interface {
	OutcomesForEvent(ctx context.Context, eventID string) ([]models.ValidationOutcome, error)
}

type Handler struct {
	validator ClinicalValidator
	catalog   CaseCatalog
	outcomes  OutcomeStore
	logger    *zerolog.Logger
}

func NewHandler(validator ClinicalValidator, catalog CaseCatalog, logger *zerolog.Logger) *Handler {
	return &Handler{
		validator: validator,
		catalog:   catalog,
		logger:    logger,
	}
}

// WithOutcomeStore enables GET /api/v1/outcomes/{event_id}.
func (h *Handler) WithOutcomeStore(store OutcomeStore) *Handler {
	h.outcomes = store
	return h
}

// POST /api/v1/validate
// Body: ValidationRequest
// Returns: ValidationResult
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	var validationRequest models.ValidationRequest
	if err := req.ReadEntity(&validationRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := validationRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Int("contraindications", len(validationRequest.Rules.Contraindications)).
		Msg("Start validation")

	result := h.validator.Validate(req.Request.Context(), validationRequest)

	h.logResult("", result)
	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/cases/{case_id}/validate
// Body: CaseValidationRequest
// Returns: ValidationResult
func (h *Handler) ValidateCase(req *restful.Request, resp *restful.Response) {
	caseID := req.PathParameter("case_id")

	clinicalCase, err := h.catalog.Get(caseID)
	if err != nil {
		if errors.Is(err, config.ErrCaseNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	var caseRequest CaseValidationRequest
	if err := req.ReadEntity(&caseRequest); err != nil {
		h.logger.Error().Err(err).Str("case_id", caseID).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	validationRequest := clinicalCase.Request(caseRequest.StudentText)
	if err := validationRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().Str("case_id", caseID).Msg("Start case validation")

	result := h.validator.Validate(req.Request.Context(), validationRequest)

	h.logResult(caseID, result)
	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/cases
func (h *Handler) ListCases(req *restful.Request, resp *restful.Response) {
	cases := h.catalog.List()
	summaries := make([]CaseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, CaseSummary{
			ID:             c.ID,
			Title:          c.Title,
			ContextSummary: c.ContextSummary,
		})
	}

	resp.WriteHeaderAndEntity(http.StatusOK, summaries)
}

// GET /api/v1/outcomes/{event_id}
func (h *Handler) Outcomes(req *restful.Request, resp *restful.Response) {
	eventID := req.PathParameter("event_id")

	outcomes, err := h.outcomes.OutcomesForEvent(req.Request.Context(), eventID)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", eventID).Msg("Failed to load outcomes")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}
	if len(outcomes) == 0 {
		middleware.HandleError(resp, fmt.Errorf("no outcomes recorded for event %s", eventID), http.StatusNotFound)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, outcomes)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: Version,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) logResult(caseID string, result models.ValidationResult) {
	event := h.logger.Info()
	if result.IsFallback() {
		event = h.logger.Warn()
	}
	event.
		Str("case_id", caseID).
		Bool("is_clinically_accurate", result.IsClinicallyAccurate).
		Bool("safety_violation", result.SafetyViolation).
		Bool("fallback", result.IsFallback()).
		Msg("Validation complete")
}
