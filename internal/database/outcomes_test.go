package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

func TestOutcomeArgs(t *testing.T) {
	validatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	outcome := models.ValidationOutcome{
		EventID:     "evt-1",
		CaseID:      "oral-ulcer-tongue",
		Result:      models.ValidationResult{SafetyViolation: true, Feedback: "Contraindicated."},
		ValidatedAt: validatedAt,
	}

	args := outcomeArgs(outcome)

	if len(args) != 9 {
		t.Fatalf("len(args) = %d, want 9", len(args))
	}
	missing, ok := args[4].([]string)
	if !ok || missing == nil {
		t.Errorf("missing_critical_info arg = %#v, want empty slice", args[4])
	}
	if args[3] != true || args[5] != "Contraindicated." || args[8] != validatedAt {
		t.Errorf("args = %#v", args)
	}
}

// Requires a running PostgreSQL; set DATABASE_URL to enable.
func TestDB_SaveOutcome_Integration(t *testing.T) {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	eventID := "it-" + time.Now().Format("20060102150405.000000000")
	outcome := models.ValidationOutcome{
		EventID:     eventID,
		Result:      models.FallbackResult(),
		Fallback:    true,
		Error:       "model call failed",
		ValidatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := db.SaveOutcome(ctx, outcome); err != nil {
		t.Fatalf("SaveOutcome() error = %v", err)
	}

	outcomes, err := db.OutcomesForEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("OutcomesForEvent() error = %v", err)
	}
	if len(outcomes) != 1 || !outcomes[0].Result.IsFallback() {
		t.Errorf("outcomes = %+v", outcomes)
	}
}
