package trade

import (
	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder           = "Order"
	AggregateTypePurchaseInvoice = "PurchaseInvoice"
)

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDelivered     = "OrderDelivered"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderLineInfo carries line facts on order events
type OrderLineInfo struct {
	LineID    uuid.UUID       `json:"line_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func orderLineInfos(order *Order) []OrderLineInfo {
	infos := make([]OrderLineInfo, len(order.Lines))
	for i, line := range order.Lines {
		infos[i] = OrderLineInfo{
			LineID:    line.ID,
			VariantID: line.VariantID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
	}
	return infos
}

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.EventBase
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventBase:    shared.NewEventBase(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Total:        order.Total,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderStatusChangedEvent is raised on every successful status transition
type OrderStatusChangedEvent struct {
	shared.EventBase
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	FromStatus  OrderStatusCode `json:"from_status"`
	ToStatus    OrderStatusCode `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from, to OrderStatusCode) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventBase:   shared.NewEventBase(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		FromStatus:  from,
		ToStatus:    to,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// OrderDeliveredEvent is raised when an order is delivered for the first
// time, after its reservations have been converted into deductions
type OrderDeliveredEvent struct {
	shared.EventBase
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Lines       []OrderLineInfo `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	Profit      decimal.Decimal `json:"profit"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(order *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		EventBase:   shared.NewEventBase(EventTypeOrderDelivered, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Lines:       orderLineInfos(order),
		Total:       order.Total,
		Profit:      order.Profit,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderCancelledEvent is raised when an order is cancelled and its
// reservations are due to be released
type OrderCancelledEvent struct {
	shared.EventBase
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	FromStatus  OrderStatusCode `json:"from_status"`
	Lines       []OrderLineInfo `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, from OrderStatusCode) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		EventBase:   shared.NewEventBase(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		FromStatus:  from,
		Lines:       orderLineInfos(order),
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
