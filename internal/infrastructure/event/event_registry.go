package event

import (
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Trade domain - Order events
	serializer.Register(trade.EventTypeOrderCreated, &trade.OrderCreatedEvent{})
	serializer.Register(trade.EventTypeOrderStatusChanged, &trade.OrderStatusChangedEvent{})
	serializer.Register(trade.EventTypeOrderDelivered, &trade.OrderDeliveredEvent{})
	serializer.Register(trade.EventTypeOrderCancelled, &trade.OrderCancelledEvent{})

	// Trade domain - Purchase invoice events
	serializer.Register(trade.EventTypePurchaseInvoiceCreated, &trade.PurchaseInvoiceCreatedEvent{})
	serializer.Register(trade.EventTypePurchaseStatusChanged, &trade.PurchaseStatusChangedEvent{})
	serializer.Register(trade.EventTypePurchaseAccepted, &trade.PurchaseAcceptedEvent{})
	serializer.Register(trade.EventTypePurchaseUnaccepted, &trade.PurchaseUnacceptedEvent{})

	// Catalog domain - Variant stock events
	serializer.Register(catalog.EventTypeVariantRegistered, &catalog.VariantRegisteredEvent{})
	serializer.Register(catalog.EventTypeStockReserved, &catalog.StockReservedEvent{})
	serializer.Register(catalog.EventTypeStockReleased, &catalog.StockReleasedEvent{})
	serializer.Register(catalog.EventTypeStockFulfilled, &catalog.StockFulfilledEvent{})
	serializer.Register(catalog.EventTypeStockIncreased, &catalog.StockIncreasedEvent{})
	serializer.Register(catalog.EventTypeStockDecreased, &catalog.StockDecreasedEvent{})
	serializer.Register(catalog.EventTypeVariantCostChanged, &catalog.VariantCostChangedEvent{})
	serializer.Register(catalog.EventTypeStockBelowThreshold, &catalog.StockBelowThresholdEvent{})
}
