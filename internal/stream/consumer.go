package stream

import "context"

// StreamConsumer reads ValidationEvents from a queue and answers each one with
// exactly one ValidationOutcome on the result stream before acknowledging it.
// Undecodable events are acknowledged and skipped.
type StreamConsumer interface {
	// Setup creates the consumer group if it does not exist yet.
	Setup(ctx context.Context) error
	// Start blocks processing events until ctx is cancelled. An event already
	// validated when ctx ends is still published and acknowledged.
	Start(ctx context.Context) error
	// Stop releases the queue connection. Call it after Start has returned.
	Stop() error
}
