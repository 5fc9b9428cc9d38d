package shared

import "context"

// EventHandler reacts to domain events, e.g. the low-stock watcher
// that fires when a reservation pushes available stock under the
// variant's threshold.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher delivers events to their handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the in-process fan-out the outbox relay publishes into.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver stores events for later delivery inside the same
// transaction that mutates the aggregate. The txProvider is the
// repository's open *gorm.DB transaction; the domain layer only sees
// it as an opaque handle.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
