package catalog

import (
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeVariant = "Variant"

// Event type constants
const (
	EventTypeVariantRegistered   = "VariantRegistered"
	EventTypeStockReserved       = "StockReserved"
	EventTypeStockReleased       = "StockReleased"
	EventTypeStockFulfilled      = "StockFulfilled"
	EventTypeStockIncreased      = "StockIncreased"
	EventTypeStockDecreased      = "StockDecreased"
	EventTypeVariantCostChanged  = "VariantCostChanged"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// VariantRegisteredEvent is raised when a new variant is registered
type VariantRegisteredEvent struct {
	shared.EventBase
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewVariantRegisteredEvent creates a new VariantRegisteredEvent
func NewVariantRegisteredEvent(v *Variant) *VariantRegisteredEvent {
	return &VariantRegisteredEvent{
		EventBase: shared.NewEventBase(EventTypeVariantRegistered, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:       v.SKU,
		Name:      v.Name,
	}
}

// EventType returns the event type name
func (e *VariantRegisteredEvent) EventType() string {
	return EventTypeVariantRegistered
}

// StockReservedEvent is raised when stock is earmarked against an order
type StockReservedEvent struct {
	shared.EventBase
	SKU            string `json:"sku"`
	Quantity       int64  `json:"quantity"`
	ReservedBefore int64  `json:"reserved_before"`
	ReservedAfter  int64  `json:"reserved_after"`
	Available      int64  `json:"available"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(v *Variant, qty, reservedBefore int64) *StockReservedEvent {
	return &StockReservedEvent{
		EventBase:      shared.NewEventBase(EventTypeStockReserved, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:            v.SKU,
		Quantity:       qty,
		ReservedBefore: reservedBefore,
		ReservedAfter:  v.Reserved,
		Available:      v.Available(),
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when a reservation is given back
type StockReleasedEvent struct {
	shared.EventBase
	SKU            string `json:"sku"`
	Quantity       int64  `json:"quantity"`
	ReservedBefore int64  `json:"reserved_before"`
	ReservedAfter  int64  `json:"reserved_after"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(v *Variant, qty, reservedBefore int64) *StockReleasedEvent {
	return &StockReleasedEvent{
		EventBase:      shared.NewEventBase(EventTypeStockReleased, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:            v.SKU,
		Quantity:       qty,
		ReservedBefore: reservedBefore,
		ReservedAfter:  v.Reserved,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// StockFulfilledEvent is raised when a reservation converts into a
// permanent deduction on delivery
type StockFulfilledEvent struct {
	shared.EventBase
	SKU               string `json:"sku"`
	Quantity          int64  `json:"quantity"`
	StockOnHandBefore int64  `json:"stock_on_hand_before"`
	StockOnHandAfter  int64  `json:"stock_on_hand_after"`
	ReservedBefore    int64  `json:"reserved_before"`
	ReservedAfter     int64  `json:"reserved_after"`
}

// NewStockFulfilledEvent creates a new StockFulfilledEvent
func NewStockFulfilledEvent(v *Variant, qty, onHandBefore, reservedBefore int64) *StockFulfilledEvent {
	return &StockFulfilledEvent{
		EventBase:         shared.NewEventBase(EventTypeStockFulfilled, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:               v.SKU,
		Quantity:          qty,
		StockOnHandBefore: onHandBefore,
		StockOnHandAfter:  v.StockOnHand,
		ReservedBefore:    reservedBefore,
		ReservedAfter:     v.Reserved,
	}
}

// EventType returns the event type name
func (e *StockFulfilledEvent) EventType() string {
	return EventTypeStockFulfilled
}

// StockIncreasedEvent is raised when purchased stock is added
type StockIncreasedEvent struct {
	shared.EventBase
	SKU               string `json:"sku"`
	Quantity          int64  `json:"quantity"`
	StockOnHandBefore int64  `json:"stock_on_hand_before"`
	StockOnHandAfter  int64  `json:"stock_on_hand_after"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(v *Variant, qty, onHandBefore int64) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		EventBase:         shared.NewEventBase(EventTypeStockIncreased, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:               v.SKU,
		Quantity:          qty,
		StockOnHandBefore: onHandBefore,
		StockOnHandAfter:  v.StockOnHand,
	}
}

// EventType returns the event type name
func (e *StockIncreasedEvent) EventType() string {
	return EventTypeStockIncreased
}

// StockDecreasedEvent is raised when previously received stock is removed
// again, as part of rolling back an invoice acceptance
type StockDecreasedEvent struct {
	shared.EventBase
	SKU               string `json:"sku"`
	Quantity          int64  `json:"quantity"`
	StockOnHandBefore int64  `json:"stock_on_hand_before"`
	StockOnHandAfter  int64  `json:"stock_on_hand_after"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(v *Variant, qty, onHandBefore int64) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		EventBase:         shared.NewEventBase(EventTypeStockDecreased, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:               v.SKU,
		Quantity:          qty,
		StockOnHandBefore: onHandBefore,
		StockOnHandAfter:  v.StockOnHand,
	}
}

// EventType returns the event type name
func (e *StockDecreasedEvent) EventType() string {
	return EventTypeStockDecreased
}

// VariantCostChangedEvent is raised when the weighted-average unit cost
// is overwritten or rolled back
type VariantCostChangedEvent struct {
	shared.EventBase
	SKU     string              `json:"sku"`
	OldCost decimal.NullDecimal `json:"old_cost"`
	NewCost decimal.NullDecimal `json:"new_cost"`
}

// NewVariantCostChangedEvent creates a new VariantCostChangedEvent
func NewVariantCostChangedEvent(v *Variant, oldCost, newCost decimal.NullDecimal) *VariantCostChangedEvent {
	return &VariantCostChangedEvent{
		EventBase: shared.NewEventBase(EventTypeVariantCostChanged, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:       v.SKU,
		OldCost:   oldCost,
		NewCost:   newCost,
	}
}

// EventType returns the event type name
func (e *VariantCostChangedEvent) EventType() string {
	return EventTypeVariantCostChanged
}

// StockBelowThresholdEvent is raised when available stock falls to or
// below the variant's configured threshold
type StockBelowThresholdEvent struct {
	shared.EventBase
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Available   int64  `json:"available"`
	StockOnHand int64  `json:"stock_on_hand"`
	Reserved    int64  `json:"reserved"`
	Threshold   int64  `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(v *Variant) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		EventBase:   shared.NewEventBase(EventTypeStockBelowThreshold, AggregateTypeVariant, v.ID, v.TenantID),
		SKU:         v.SKU,
		Name:        v.Name,
		Available:   v.Available(),
		StockOnHand: v.StockOnHand,
		Reserved:    v.Reserved,
		Threshold:   v.LowStockThreshold,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}
