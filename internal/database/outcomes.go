package database

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog/log"
)

const createOutcomesTable = `
CREATE TABLE IF NOT EXISTS validation_outcomes (
	event_id               TEXT        NOT NULL,
	case_id                TEXT        NOT NULL DEFAULT '',
	is_clinically_accurate BOOLEAN     NOT NULL,
	safety_violation       BOOLEAN     NOT NULL,
	missing_critical_info  TEXT[]      NOT NULL DEFAULT '{}',
	feedback               TEXT        NOT NULL,
	fallback               BOOLEAN     NOT NULL,
	error                  TEXT        NOT NULL DEFAULT '',
	validated_at           TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (event_id, validated_at)
)`

const insertOutcome = `
INSERT INTO validation_outcomes (
	event_id, case_id, is_clinically_accurate, safety_violation,
	missing_critical_info, feedback, fallback, error, validated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (event_id, validated_at) DO NOTHING`

// EnsureSchema creates the audit table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createOutcomesTable); err != nil {
		return fmt.Errorf("failed to create validation_outcomes table: %w", err)
	}
	return nil
}

// SaveOutcome appends one validation outcome to the audit table.
func (db *DB) SaveOutcome(ctx context.Context, outcome models.ValidationOutcome) error {
	result, err := db.Pool.Exec(ctx, insertOutcome, outcomeArgs(outcome)...)
	if err != nil {
		return fmt.Errorf("failed to save outcome for event %s: %w", outcome.EventID, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("event_id", outcome.EventID).Msg("Outcome already recorded")
	}
	return nil
}

// OutcomesForEvent returns every recorded outcome of an event, oldest first.
func (db *DB) OutcomesForEvent(ctx context.Context, eventID string) ([]models.ValidationOutcome, error) {
	query := `
	SELECT event_id, case_id, is_clinically_accurate, safety_violation,
	       missing_critical_info, feedback, fallback, error, validated_at
	FROM validation_outcomes
	WHERE event_id = $1
	ORDER BY validated_at ASC`

	rows, err := db.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("unable to query outcomes for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var outcomes []models.ValidationOutcome
	for rows.Next() {
		var outcome models.ValidationOutcome
		if err := rows.Scan(
			&outcome.EventID,
			&outcome.CaseID,
			&outcome.Result.IsClinicallyAccurate,
			&outcome.Result.SafetyViolation,
			&outcome.Result.MissingCriticalInfo,
			&outcome.Result.Feedback,
			&outcome.Fallback,
			&outcome.Error,
			&outcome.ValidatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, rows.Err()
}

func outcomeArgs(outcome models.ValidationOutcome) []any {
	missing := outcome.Result.MissingCriticalInfo
	if missing == nil {
		missing = []string{}
	}

	return []any{
		outcome.EventID,
		outcome.CaseID,
		outcome.Result.IsClinicallyAccurate,
		outcome.Result.SafetyViolation,
		missing,
		outcome.Result.Feedback,
		outcome.Fallback,
		outcome.Error,
		outcome.ValidatedAt,
	}
}
