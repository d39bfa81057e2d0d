package batch

import (
	"context"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	"github.com/rs/zerolog"
)

type Executor interface {
	Execute(ctx context.Context, event models.ValidationEvent) models.ValidationOutcome
}

// Processor runs validation events through a bounded pool of workers.
type Processor struct {
	executor Executor
	workers  int
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewProcessor(exec Executor, workers int, logger *zerolog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		executor: exec,
		workers:  workers,
		logger:   logger,
		now:      time.Now,
	}
}

// Process emits one outcome per record, in completion order. Records that
// failed to parse become fallback outcomes without reaching the model.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.ValidationOutcome {
	jobs := make(chan InputRecord)
	results := make(chan models.ValidationOutcome, p.workers)

	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for record := range jobs {
				outcome := p.processRecord(ctx, record)
				p.logger.Debug().
					Int("worker", worker).
					Int("line", record.LineNumber).
					Str("request_id", outcome.EventID).
					Msg("record processed")

				select {
				case <-ctx.Done():
					return
				case results <- outcome:
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case <-ctx.Done():
				p.logger.Warn().Int("line", record.LineNumber).Msg("batch cancelled, remaining records skipped")
				return
			case jobs <- record:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processRecord(ctx context.Context, record InputRecord) models.ValidationOutcome {
	if record.Error != nil {
		return models.ValidationOutcome{
			EventID:     record.Event.EventID,
			CaseID:      record.Event.CaseID,
			Result:      models.FallbackResult(),
			Fallback:    true,
			Error:       record.Error.Error(),
			ValidatedAt: p.now().UTC(),
		}
	}
	return p.executor.Execute(ctx, record.Event)
}
