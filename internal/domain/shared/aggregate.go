package shared

import (
	"time"

	"github.com/google/uuid"
)

// TenantAggregateRoot carries the identity, tenant scope, optimistic lock
// version, and pending domain events that every aggregate in the system
// shares. Embed it in the aggregate struct; gorm flattens the columns.
type TenantAggregateRoot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	domainEvents []DomainEvent `gorm:"-"`
}

// NewTenantAggregateRoot seeds a fresh aggregate for the given tenant.
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	now := time.Now()
	return TenantAggregateRoot{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IncrementVersion bumps the optimistic lock version. Repositories compare
// it on save to reject concurrent writers.
func (a *TenantAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent queues an event to be written to the outbox in the same
// transaction that persists the aggregate.
func (a *TenantAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events.
func (a *TenantAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events once they have been persisted.
func (a *TenantAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
