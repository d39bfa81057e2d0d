package batch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

type stubExecutor struct {
	mu       sync.Mutex
	seen     []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (s *stubExecutor) Execute(_ context.Context, event models.ValidationEvent) models.ValidationOutcome {
	current := s.inFlight.Add(1)
	for {
		peak := s.peak.Load()
		if current <= peak || s.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	time.Sleep(s.delay)
	s.inFlight.Add(-1)

	s.mu.Lock()
	s.seen = append(s.seen, event.EventID)
	s.mu.Unlock()

	return models.ValidationOutcome{
		EventID: event.EventID,
		Result:  models.ValidationResult{IsClinicallyAccurate: true, MissingCriticalInfo: []string{}},
	}
}

func records(ids ...string) []InputRecord {
	out := make([]InputRecord, 0, len(ids))
	for i, id := range ids {
		out = append(out, InputRecord{
			LineNumber: i + 1,
			Event: models.ValidationEvent{
				EventID: id,
				Request: models.ValidationRequest{StudentText: "Biopsy."},
			},
		})
	}
	return out
}

func TestProcessor_ProcessesEveryRecord(t *testing.T) {
	exec := &stubExecutor{delay: 5 * time.Millisecond}
	processor := NewProcessor(exec, 3, newTestLogger())

	var ids []string
	for outcome := range processor.Process(context.Background(), records("a", "b", "c", "d", "e", "f")) {
		ids = append(ids, outcome.EventID)
	}

	sort.Strings(ids)
	if len(ids) != 6 || ids[0] != "a" || ids[5] != "f" {
		t.Errorf("outcomes = %v", ids)
	}
	if peak := exec.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestProcessor_InvalidRecordsBecomeFallbacks(t *testing.T) {
	exec := &stubExecutor{}
	processor := NewProcessor(exec, 2, newTestLogger())

	input := records("ok")
	input = append(input, InputRecord{
		LineNumber: 2,
		Event:      models.ValidationEvent{EventID: "bad"},
		Error:      errors.New("line 2: student_text is required"),
	})

	outcomes := map[string]models.ValidationOutcome{}
	for outcome := range processor.Process(context.Background(), input) {
		outcomes[outcome.EventID] = outcome
	}

	bad := outcomes["bad"]
	if !bad.Fallback || !bad.Result.IsFallback() || bad.Error == "" {
		t.Errorf("invalid record outcome = %+v", bad)
	}
	if len(exec.seen) != 1 || exec.seen[0] != "ok" {
		t.Errorf("executor saw %v, want only the valid record", exec.seen)
	}
}

func TestProcessor_Cancellation(t *testing.T) {
	exec := &stubExecutor{delay: 20 * time.Millisecond}
	processor := NewProcessor(exec, 1, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = string(rune('A' + i%26))
	}

	count := 0
	for range processor.Process(ctx, records(ids...)) {
		count++
		if count == 2 {
			cancel()
		}
	}

	if count >= 50 {
		t.Errorf("expected early stop, processed %d", count)
	}
}

func TestNewProcessor_DefaultsToOneWorker(t *testing.T) {
	if p := NewProcessor(&stubExecutor{}, 0, newTestLogger()); p.workers != 1 {
		t.Errorf("workers = %d, want 1", p.workers)
	}
}
