package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

// DefaultPromptTemplate is executed with a promptData value.
const DefaultPromptTemplate = `You are a Senior Oral Pathology Examiner. Validate the student's clinical decision based strictly on the provided rules.

CASE CONTEXT:
{{.ContextSummary}}

MANDATORY CLINICAL RULES:
{{.Rules}}

STUDENT ACTION:
"{{.StudentText}}"

EVALUATION TASK:
1. Check if the student action violates any "contraindications" in the rules.
2. Check if the student missed any "required_history" or "required_exam".
3. Determine if the action is safe.

OUTPUT FORMAT:
Return ONLY a JSON object. Do not explain outside the JSON.
{
    "is_clinically_accurate": boolean,
    "safety_violation": boolean,
    "missing_critical_info": ["list", "of", "missing", "items"],
    "feedback": "Professional feedback explaining the mistake or confirming the correct action."
}
`

type promptData struct {
	ContextSummary string
	Rules          string
	StudentText    string
}

// PromptBuilder renders the evaluation prompt for one request.
type PromptBuilder struct {
	tmpl *template.Template
}

func NewPromptBuilder(text string) (*PromptBuilder, error) {
	if text == "" {
		text = DefaultPromptTemplate
	}
	tmpl, err := template.New("clinical-validation").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

func (b *PromptBuilder) Build(req models.ValidationRequest) (string, error) {
	rules, err := marshalRules(req.Rules)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = b.tmpl.Execute(&buf, promptData{
		ContextSummary: req.ContextSummary,
		Rules:          rules,
		StudentText:    req.StudentText,
	})
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// marshalRules renders the rules as indented JSON with empty lists instead of null.
func marshalRules(rules models.Rules) (string, error) {
	normalized := models.Rules{
		Contraindications: orEmpty(rules.Contraindications),
		RequiredHistory:   orEmpty(rules.RequiredHistory),
		RequiredExam:      orEmpty(rules.RequiredExam),
	}
	out, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize rules: %w", err)
	}
	return string(out), nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
