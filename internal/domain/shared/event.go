package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate: an order
// changed status, stock was reserved, an invoice was approved. Events
// are written to the outbox in the same transaction as the aggregate
// and relayed to handlers afterwards.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// EventBase carries the fields every domain event shares. Embed it and
// add the event-specific payload fields alongside.
type EventBase struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggID         uuid.UUID `json:"aggregate_id"`
	AggType       string    `json:"aggregate_type"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
}

func (e *EventBase) EventID() uuid.UUID     { return e.ID }
func (e *EventBase) EventType() string      { return e.Type }
func (e *EventBase) OccurredAt() time.Time  { return e.Timestamp }
func (e *EventBase) AggregateID() uuid.UUID { return e.AggID }
func (e *EventBase) AggregateType() string  { return e.AggType }
func (e *EventBase) TenantID() uuid.UUID    { return e.TenantIDValue }

// NewEventBase stamps a fresh event with an id and the current time.
func NewEventBase(eventType, aggType string, aggID, tenantID uuid.UUID) EventBase {
	return EventBase{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}
