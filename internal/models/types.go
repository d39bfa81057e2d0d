package models

import (
	"errors"
	"strings"
	"time"
)

// FallbackFeedback is returned when every validation attempt failed.
const FallbackFeedback = "System Error: Unable to validate response at this time. Please try again."

var ErrEmptyStudentText = errors.New("student_text is required")

// Rules are the clinical constraints supplied per case.
type Rules struct {
	Contraindications []string `json:"contraindications" yaml:"contraindications"`
	RequiredHistory   []string `json:"required_history" yaml:"required_history"`
	RequiredExam      []string `json:"required_exam" yaml:"required_exam"`
}

// Input of a single validation call
type ValidationRequest struct {
	StudentText    string `json:"student_text" jsonschema:"clinical action proposed by the student"`
	Rules          Rules  `json:"rules" jsonschema:"contraindications, required history and required exam items"`
	ContextSummary string `json:"context_summary" jsonschema:"summary of the patient case"`
}

// Validate checks the request is worth sending to the model.
func (r ValidationRequest) Validate() error {
	if strings.TrimSpace(r.StudentText) == "" {
		return ErrEmptyStudentText
	}
	return nil
}

// ValidationResult is the fixed-shape record returned by the validator.
type ValidationResult struct {
	IsClinicallyAccurate bool     `json:"is_clinically_accurate"`
	SafetyViolation      bool     `json:"safety_violation"`
	MissingCriticalInfo  []string `json:"missing_critical_info"`
	Feedback             string   `json:"feedback"`
}

// FallbackResult returns a fresh copy of the conservative record used when
// the model could not be reached or never produced a well-formed reply.
// Callers must read IsClinicallyAccurate=false here as "could not confirm".
func FallbackResult() ValidationResult {
	return ValidationResult{
		IsClinicallyAccurate: false,
		SafetyViolation:      false,
		MissingCriticalInfo:  []string{},
		Feedback:             FallbackFeedback,
	}
}

// IsFallback reports whether r is the exhaustion record.
func (r ValidationResult) IsFallback() bool {
	return !r.IsClinicallyAccurate &&
		!r.SafetyViolation &&
		len(r.MissingCriticalInfo) == 0 &&
		r.Feedback == FallbackFeedback
}

// Input message for the stream and batch runners.
// When CaseID is set the rules and context come from the case catalog.
type ValidationEvent struct {
	EventID string            `json:"event_id"`
	CaseID  string            `json:"case_id,omitempty"`
	Request ValidationRequest `json:"request"`
}

// Output emitted to the results stream and batch files
type ValidationOutcome struct {
	EventID     string           `json:"event_id"`
	CaseID      string           `json:"case_id,omitempty"`
	Result      ValidationResult `json:"result"`
	Fallback    bool             `json:"fallback"`
	Error       string           `json:"error,omitempty"`
	ValidatedAt time.Time        `json:"validated_at"`
}
