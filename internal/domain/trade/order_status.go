package trade

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
)

// OrderStatusCode identifies a step in the order lifecycle. Transition
// semantics are keyed by code only; tenants may customize display name
// and color but never the edges of the graph.
type OrderStatusCode string

const (
	OrderStatusNew         OrderStatusCode = "NEW"
	OrderStatusUnderReview OrderStatusCode = "UNDER_REVIEW"
	OrderStatusPreparing   OrderStatusCode = "PREPARING"
	OrderStatusReady       OrderStatusCode = "READY"
	OrderStatusShipped     OrderStatusCode = "SHIPPED"
	OrderStatusDelivered   OrderStatusCode = "DELIVERED"
	OrderStatusCancelled   OrderStatusCode = "CANCELLED"
	OrderStatusReturned    OrderStatusCode = "RETURNED"
)

// AllOrderStatusCodes returns every valid code in lifecycle order
func AllOrderStatusCodes() []OrderStatusCode {
	return []OrderStatusCode{
		OrderStatusNew,
		OrderStatusUnderReview,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusReturned,
	}
}

// DefaultOrderStatusCode is the status assigned to newly created orders
func DefaultOrderStatusCode() OrderStatusCode {
	return OrderStatusNew
}

// IsValid checks if the code is a known OrderStatusCode
func (s OrderStatusCode) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusUnderReview, OrderStatusPreparing, OrderStatusReady,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of the code
func (s OrderStatusCode) String() string {
	return string(s)
}

// CanTransitionTo checks if the code can transition to the target code.
// The graph is a single forward chain with cancellation possible before
// shipment and returns possible after it.
func (s OrderStatusCode) CanTransitionTo(target OrderStatusCode) bool {
	switch s {
	case OrderStatusNew:
		return target == OrderStatusUnderReview || target == OrderStatusCancelled
	case OrderStatusUnderReview:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusReady || target == OrderStatusCancelled
	case OrderStatusReady:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusReturned
	case OrderStatusDelivered:
		return target == OrderStatusReturned
	case OrderStatusCancelled, OrderStatusReturned:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true when no outgoing edges exist
func (s OrderStatusCode) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

// ReleasesReservation returns true for the codes whose transition hands
// reserved stock back to the ledger
func (s OrderStatusCode) ReleasesReservation() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

// Scan implements the sql.Scanner interface
func (s *OrderStatusCode) Scan(value any) error {
	if value == nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("trade: cannot scan type %T into OrderStatusCode", value)
		}
	}
	*s = OrderStatusCode(strings.ToUpper(str))
	if !s.IsValid() {
		return fmt.Errorf("trade: invalid order status code: %s", str)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s OrderStatusCode) Value() (driver.Value, error) {
	return string(s), nil
}

// Status is a tenant's display record for one order status code. The code
// set and the transition table are fixed; a tenant owns one row per code
// and may adjust how the status is presented.
type Status struct {
	shared.TenantAggregateRoot
	Code      OrderStatusCode `gorm:"type:varchar(32);not null;uniqueIndex:idx_status_tenant_code,priority:2"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Color     string          `gorm:"type:varchar(16);not null"`
	IsDefault bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Status) TableName() string {
	return "order_statuses"
}

// NewStatus creates a status display record for a tenant
func NewStatus(tenantID uuid.UUID, code OrderStatusCode, name, color string, isDefault bool) (*Status, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status code: %s", code))
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Status name cannot be empty")
	}

	return &Status{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Color:               color,
		IsDefault:           isDefault,
	}, nil
}

// UpdateDisplay changes the tenant-facing name and color. The code and
// its transition semantics are immutable.
func (s *Status) UpdateDisplay(name, color string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Status name cannot be empty")
	}
	s.Name = name
	s.Color = color
	s.UpdatedAt = time.Now()
	return nil
}

// DefaultStatuses returns the canonical seed set for a tenant. NEW is the
// default status for freshly created orders.
func DefaultStatuses(tenantID uuid.UUID) []Status {
	seed := []struct {
		code  OrderStatusCode
		name  string
		color string
	}{
		{OrderStatusNew, "New", "#3498db"},
		{OrderStatusUnderReview, "Under Review", "#f39c12"},
		{OrderStatusPreparing, "Preparing", "#9b59b6"},
		{OrderStatusReady, "Ready", "#2ecc71"},
		{OrderStatusShipped, "Shipped", "#1abc9c"},
		{OrderStatusDelivered, "Delivered", "#27ae60"},
		{OrderStatusCancelled, "Cancelled", "#e74c3c"},
		{OrderStatusReturned, "Returned", "#95a5a6"},
	}

	statuses := make([]Status, 0, len(seed))
	for _, s := range seed {
		statuses = append(statuses, Status{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			Code:                s.code,
			Name:                s.name,
			Color:               s.color,
			IsDefault:           s.code == DefaultOrderStatusCode(),
		})
	}
	return statuses
}
