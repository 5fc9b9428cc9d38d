package shared

import (
	"context"
	"time"
)

// ProcessedEventTTL is how long a processed event id is remembered.
// The outbox relay retries with growing backoff well inside this
// window, so a remembered id reliably identifies a redelivery.
const ProcessedEventTTL = 24 * time.Hour

// IdempotencyStore remembers which event ids have been handled so a
// redelivered outbox entry does not reserve stock or adjust a cost
// twice.
type IdempotencyStore interface {
	// MarkProcessed records the event id. It reports true when the id
	// was new and false when the event was seen before.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event id has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}
