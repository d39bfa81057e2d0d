package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Summary aggregates a batch run.
type Summary struct {
	Total            int      `json:"total"`
	Accurate         int      `json:"accurate"`
	SafetyViolations int      `json:"safety_violations"`
	Fallbacks        int      `json:"fallbacks"`
	FailedEventIDs   []string `json:"failed_event_ids"`
}

func (s *Summary) Add(outcome models.ValidationOutcome) {
	s.Total++
	if outcome.Result.IsClinicallyAccurate {
		s.Accurate++
	}
	if outcome.Result.SafetyViolation {
		s.SafetyViolations++
	}
	if outcome.Fallback {
		s.Fallbacks++
		s.FailedEventIDs = append(s.FailedEventIDs, outcome.EventID)
	}
}

// Writer writes outcomes either as JSONL or, for the summary format, as one
// JSON document on Close.
type Writer struct {
	mu      sync.Mutex
	out     *bufio.Writer
	format  string
	summary Summary
	logger  *zerolog.Logger
}

func NewWriter(output io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s, %s)", format, FormatJSONL, FormatSummary)
	}

	return &Writer{
		out:     bufio.NewWriter(output),
		format:  format,
		summary: Summary{FailedEventIDs: []string{}},
		logger:  logger,
	}, nil
}

func (w *Writer) Write(outcome models.ValidationOutcome) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.summary.Add(outcome)
	if w.format != FormatJSONL {
		return nil
	}

	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome %s: %w", outcome.EventID, err)
	}
	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write outcome %s: %w", outcome.EventID, err)
	}
	return nil
}

func (w *Writer) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.summary
}

// Close writes the summary document when needed and flushes the output.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.format == FormatSummary {
		data, err := json.MarshalIndent(w.summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		if _, err := w.out.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	w.logger.Debug().Int("total", w.summary.Total).Str("format", w.format).Msg("flushing batch output")
	return w.out.Flush()
}
