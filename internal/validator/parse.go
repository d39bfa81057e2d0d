package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

var (
	ErrMissingRequiredKeys = errors.New("missing required keys in model response")
	ErrNotJSONObject       = errors.New("model response is not a JSON object")
)

// RequiredKeys must all be present in a reply for it to be accepted.
var RequiredKeys = []string{
	"is_clinically_accurate",
	"safety_violation",
	"missing_critical_info",
	"feedback",
}

// ParseResult decodes a model reply into a ValidationResult. The reply may be
// wrapped in a Markdown code fence.
func ParseResult(reply string) (models.ValidationResult, error) {
	payload := ExtractJSON(reply)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return models.ValidationResult{}, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	if fields == nil {
		return models.ValidationResult{}, ErrNotJSONObject
	}

	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return models.ValidationResult{}, fmt.Errorf("%w: %s", ErrMissingRequiredKeys, strings.Join(missing, ", "))
	}

	// Fields are read from their exact keys only. Decoding the payload into
	// the struct would also accept case variants such as "Feedback".
	var result models.ValidationResult
	targets := []struct {
		key string
		dst any
	}{
		{"is_clinically_accurate", &result.IsClinicallyAccurate},
		{"safety_violation", &result.SafetyViolation},
		{"missing_critical_info", &result.MissingCriticalInfo},
		{"feedback", &result.Feedback},
	}
	for _, target := range targets {
		if err := json.Unmarshal(fields[target.key], target.dst); err != nil {
			return models.ValidationResult{}, fmt.Errorf("invalid field type in model response: %s: %w", target.key, err)
		}
	}
	if result.MissingCriticalInfo == nil {
		result.MissingCriticalInfo = []string{}
	}

	return result, nil
}
