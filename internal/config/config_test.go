package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `validator:
  provider: huggingface
  model_id: google/gemma-2-9b-it
  max_tokens: 500
  max_attempts: 2
  retry_delay: 250ms

cases:
  - id: oral-ulcer-tongue
    title: "Indurated tongue ulcer"
    context_summary: "55-year-old male with indurated ulcer on tongue for 4 weeks."
    rules:
      contraindications:
        - "Do not prescribe corticosteroids for undiagnosed ulcerative lesions"
      required_history:
        - "Duration of lesion"
      required_exam:
        - "Palpation"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "validator.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig_Success(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Validator.MaxAttempts != 2 {
		t.Errorf("Expected max_attempts=2, got %d", cfg.Validator.MaxAttempts)
	}
	if cfg.Validator.RetryDelay != 250*time.Millisecond {
		t.Errorf("Expected retry_delay=250ms, got %s", cfg.Validator.RetryDelay)
	}
	// Defaults fill what the file leaves out
	if *cfg.Validator.Temperature != 0.1 {
		t.Errorf("Expected default temperature=0.1, got %f", *cfg.Validator.Temperature)
	}
	if cfg.Validator.MaxTokens != 500 {
		t.Errorf("Expected default max_tokens=500, got %d", cfg.Validator.MaxTokens)
	}

	if len(cfg.Cases) != 1 {
		t.Fatalf("Expected 1 case, got %d", len(cfg.Cases))
	}
	c := cfg.Cases[0]
	if c.ID != "oral-ulcer-tongue" {
		t.Errorf("Expected case id 'oral-ulcer-tongue', got '%s'", c.ID)
	}
	if len(c.Rules.RequiredExam) != 1 || c.Rules.RequiredExam[0] != "Palpation" {
		t.Errorf("Unexpected required_exam %v", c.Rules.RequiredExam)
	}
}

func TestLoadConfig_PathFromEnv(t *testing.T) {
	t.Setenv("VALIDATOR_CONFIG_PATH", writeConfig(t, sampleConfig))

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if len(cfg.Cases) != 1 {
		t.Errorf("Expected 1 case, got %d", len(cfg.Cases))
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/validator.yaml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `validator:
  max_tokens: 10
    wrong_level
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func TestParse_RestatedRequestParametersAreAccepted(t *testing.T) {
	cfg, err := Parse([]byte("validator:\n  max_tokens: 500\n  temperature: 0.1\n  max_attempts: 3\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Validator.MaxTokens != 500 || *cfg.Validator.Temperature != 0.1 || cfg.Validator.MaxAttempts != 3 {
		t.Errorf("Unexpected validator config %+v", cfg.Validator)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	v := cfg.Validator
	if v.Provider != "huggingface" || v.ModelID != "google/gemma-2-9b-it" {
		t.Errorf("Unexpected provider/model %s/%s", v.Provider, v.ModelID)
	}
	if v.MaxTokens != 500 || *v.Temperature != 0.1 || v.MaxAttempts != 3 || v.RetryDelay != time.Second {
		t.Errorf("Unexpected defaults %+v", v)
	}
}

func TestValidate(t *testing.T) {
	negative := -0.5
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "negative max tokens",
			yaml:    "validator:\n  max_tokens: -100\n",
			wantMsg: "max_tokens is fixed at 500",
		},
		{
			name:    "max tokens raised",
			yaml:    "validator:\n  max_tokens: 4000\n",
			wantMsg: "max_tokens is fixed at 500",
		},
		{
			name:    "temperature raised",
			yaml:    "validator:\n  temperature: 1.5\n",
			wantMsg: "temperature is fixed at 0.1",
		},
		{
			name:    "explicit zero temperature",
			yaml:    "validator:\n  temperature: 0\n",
			wantMsg: "temperature is fixed at 0.1",
		},
		{
			name:    "attempt budget above three",
			yaml:    "validator:\n  max_attempts: 7\n",
			wantMsg: "max_attempts must be between 1 and 3",
		},
		{
			name:    "negative attempt budget",
			yaml:    "validator:\n  max_attempts: -1\n",
			wantMsg: "max_attempts must be between 1 and 3",
		},
		{
			name:    "all request knobs raised",
			yaml:    "validator:\n  max_attempts: 7\n  max_tokens: 4000\n  temperature: 1.5\n",
			wantMsg: "is fixed at",
		},
		{
			name:    "invalid prompt template",
			yaml:    "validator:\n  prompt_template: \"{{.Invalid\"\n",
			wantMsg: "invalid prompt template",
		},
		{
			name:    "case without id",
			yaml:    "cases:\n  - context_summary: x\n",
			wantMsg: "missing id",
		},
		{
			name:    "duplicate case",
			yaml:    "cases:\n  - id: a\n    context_summary: x\n  - id: a\n    context_summary: y\n",
			wantMsg: "duplicate case id",
		},
		{
			name:    "case without context",
			yaml:    "cases:\n  - id: a\n",
			wantMsg: "missing context_summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected %q error, got: %v", tt.wantMsg, err)
			}
		})
	}

	cfg := Default()
	cfg.Validator.Temperature = &negative
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative temperature")
	}
}

func TestRepositoryConfigLoads(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "validator.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed on shipped config: %v", err)
	}
	if _, err := NewCatalog(cfg.Cases).Get("oral-ulcer-tongue"); err != nil {
		t.Errorf("Expected shipped catalog to contain oral-ulcer-tongue: %v", err)
	}
}
