package mcpadapter

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/config"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/validator"
)

// ValidateActionInput is the MCP tool input schema (matches HTTP API field names).
type ValidateActionInput struct {
	StudentText    string       `json:"student_text" jsonschema:"clinical action proposed by the student"`
	ContextSummary string       `json:"context_summary,omitempty" jsonschema:"summary of the patient case"`
	Rules          models.Rules `json:"rules" jsonschema:"contraindications, required history and required exam items"`
}

// ValidateCaseInput is the MCP tool input schema for catalog cases.
type ValidateCaseInput struct {
	CaseID      string `json:"case_id" jsonschema:"case identifier from the catalog"`
	StudentText string `json:"student_text" jsonschema:"clinical action proposed by the student"`
}

// NewValidateActionHandler returns a tool handler that uses the given validator.
// Pass the returned function to mcp.AddTool.
func NewValidateActionHandler(v *validator.Validator) func(context.Context, *mcp.CallToolRequest, ValidateActionInput) (*mcp.CallToolResult, models.ValidationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateActionInput) (*mcp.CallToolResult, models.ValidationResult, error) {
		return ValidateAction(ctx, v, req, input)
	}
}

// ValidateAction validates one action against the rules given in the input.
func ValidateAction(
	ctx context.Context,
	v *validator.Validator,
	req *mcp.CallToolRequest,
	input ValidateActionInput,
) (*mcp.CallToolResult, models.ValidationResult, error) {
	validationRequest := models.ValidationRequest{
		StudentText:    input.StudentText,
		Rules:          input.Rules,
		ContextSummary: input.ContextSummary,
	}
	if err := validationRequest.Validate(); err != nil {
		return nil, models.ValidationResult{}, err
	}

	return nil, v.Validate(ctx, validationRequest), nil
}

// NewValidateCaseHandler returns a tool handler for catalog cases.
// Pass the returned function to mcp.AddTool.
func NewValidateCaseHandler(v *validator.Validator, catalog *config.Catalog) func(context.Context, *mcp.CallToolRequest, ValidateCaseInput) (*mcp.CallToolResult, models.ValidationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateCaseInput) (*mcp.CallToolResult, models.ValidationResult, error) {
		return ValidateCase(ctx, v, catalog, req, input)
	}
}

// ValidateCase looks the case up in the catalog and validates the action against its rules.
func ValidateCase(
	ctx context.Context,
	v *validator.Validator,
	catalog *config.Catalog,
	req *mcp.CallToolRequest,
	input ValidateCaseInput,
) (*mcp.CallToolResult, models.ValidationResult, error) {
	clinicalCase, err := catalog.Get(input.CaseID)
	if err != nil {
		return nil, models.ValidationResult{}, fmt.Errorf("%w (available: %v)", err, catalog.IDs())
	}

	validationRequest := clinicalCase.Request(input.StudentText)
	if err := validationRequest.Validate(); err != nil {
		return nil, models.ValidationResult{}, err
	}

	return nil, v.Validate(ctx, validationRequest), nil
}
