package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 1024 * 1024

// InputRecord is one line of the JSONL input.
type InputRecord struct {
	LineNumber int
	Event      models.ValidationEvent
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		input:  input,
		logger: logger,
	}
}

// ReadAll streams the parsed records. Blank lines are skipped but still
// counted, so LineNumber matches the file.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := parseLine(lineNumber, line)
			if record.Error != nil {
				r.logger.Warn().Err(record.Error).Int("line", lineNumber).Msg("invalid input record")
			}

			select {
			case <-ctx.Done():
				return
			case out <- record:
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("failed to read input")
			select {
			case <-ctx.Done():
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			}
		}
	}()

	return out
}

func parseLine(lineNumber int, line string) InputRecord {
	record := InputRecord{LineNumber: lineNumber}

	if err := json.Unmarshal([]byte(line), &record.Event); err != nil {
		record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
		return record
	}

	if record.Event.EventID == "" {
		record.Event.EventID = fmt.Sprintf("line-%d", lineNumber)
	}

	if err := record.Event.Request.Validate(); err != nil {
		record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
	}

	return record
}
