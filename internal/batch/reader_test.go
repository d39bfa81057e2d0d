package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

const validLine = `{"event_id":"1","request":{"student_text":"I will perform a biopsy.","context_summary":"Ulcer on tongue","rules":{"contraindications":["Do not prescribe corticosteroids"],"required_history":[],"required_exam":["Palpation"]}}}`

func TestReader_InvalidFile(t *testing.T) {
	file := strings.NewReader("invalid file content")

	reader := NewReader(file, newTestLogger())
	ctx := context.Background()
	ch := reader.ReadAll(ctx)

	count := 0
	for record := range ch {
		count++
		if record.Error == nil {
			t.Errorf("expected parse error for invalid JSON, but got none")
		}
	}
	if count != 1 {
		t.Errorf("expected 1 record, got %d", count)
	}
}

func TestReader_ValidFile(t *testing.T) {
	inputFile := validLine + "\n" +
		`  {"event_id":"2","case_id":"oral-ulcer-tongue","request":{"student_text":"Prescribe prednisolone."}}`

	file := strings.NewReader(inputFile)

	ctx := context.Background()
	reader := NewReader(file, newTestLogger())

	var records []InputRecord
	for record := range reader.ReadAll(ctx) {
		if record.Error != nil {
			t.Errorf("Error reading the validation event record. Got: %s", record.Error)
		}
		records = append(records, record)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 validation events. Got: %d", len(records))
	}
	if records[0].Event.Request.Rules.RequiredExam[0] != "Palpation" {
		t.Errorf("rules not decoded: %+v", records[0].Event.Request.Rules)
	}
	if records[1].Event.CaseID != "oral-ulcer-tongue" {
		t.Errorf("case id = %q", records[1].Event.CaseID)
	}
}

func TestReader_BlankLinesKeepLineNumbers(t *testing.T) {
	file := strings.NewReader("\n" + validLine + "\n\n   \n" + `{"request":{"student_text":"Biopsy."}}` + "\n")

	reader := NewReader(file, newTestLogger())

	var records []InputRecord
	for record := range reader.ReadAll(context.Background()) {
		records = append(records, record)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].LineNumber != 2 || records[1].LineNumber != 5 {
		t.Errorf("line numbers = %d, %d; want 2, 5", records[0].LineNumber, records[1].LineNumber)
	}
	if records[1].Event.EventID != "line-5" {
		t.Errorf("generated event id = %q, want line-5", records[1].Event.EventID)
	}
}

func TestReader_MissingStudentText(t *testing.T) {
	file := strings.NewReader(`{"event_id":"1","request":{"context_summary":"Ulcer"}}`)

	reader := NewReader(file, newTestLogger())

	for record := range reader.ReadAll(context.Background()) {
		if !errors.Is(record.Error, models.ErrEmptyStudentText) {
			t.Errorf("error = %v, want ErrEmptyStudentText", record.Error)
		}
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	// Large input with many lines
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, validLine)
	}
	file := strings.NewReader(strings.Join(lines, "\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for range ch {
		count++
		if count == 5 {
			cancel() // Cancel after 5 records
			break
		}
	}

	// Should have stopped early
	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}
