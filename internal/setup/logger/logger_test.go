package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"not-a-level", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewWithWriter(&bytes.Buffer{}, tt.level)
			if l.GetLevel() != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, l.GetLevel())
			}
		})
	}
}

func TestNewWithWriter_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.Warn().Int("attempt", 2).Msg("validation attempt failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected level=warn, got %v", entry["level"])
	}
	if entry["attempt"] != float64(2) {
		t.Errorf("Expected attempt=2, got %v", entry["attempt"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("Expected timestamp field")
	}
	if _, ok := entry["caller"]; !ok {
		t.Error("Expected caller field")
	}
}
