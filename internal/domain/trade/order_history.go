package trade

import (
	"time"

	"github.com/google/uuid"
)

// OrderHistoryEntry records one status transition of an order, including
// the creation entry whose from and to codes are both the tenant's
// default status. Entries are append-only.
type OrderHistoryEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_history_order"`
	FromCode  OrderStatusCode `gorm:"type:varchar(32);not null"`
	ToCode    OrderStatusCode `gorm:"type:varchar(32);not null"`
	Actor     string          `gorm:"type:varchar(255)"`
	Note      string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"index:idx_order_history_order"`
}

// TableName returns the table name for GORM
func (OrderHistoryEntry) TableName() string {
	return "order_history_entries"
}

// NewOrderHistoryEntry creates a history entry for a transition
func NewOrderHistoryEntry(tenantID, orderID uuid.UUID, from, to OrderStatusCode, actor, note string) *OrderHistoryEntry {
	return &OrderHistoryEntry{
		ID:        uuid.New(),
		TenantID:  tenantID,
		OrderID:   orderID,
		FromCode:  from,
		ToCode:    to,
		Actor:     actor,
		Note:      note,
		CreatedAt: time.Now(),
	}
}

// IsCreationEntry reports whether this is the entry written at order
// creation time
func (e *OrderHistoryEntry) IsCreationEntry() bool {
	return e.FromCode == e.ToCode
}
