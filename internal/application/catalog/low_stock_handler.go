package catalog

import (
	"context"
	"fmt"

	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler reacts to StockBelowThreshold events raised when a
// variant's available quantity drops to or below its configured threshold
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// LowStockNotifier is the interface for delivering low stock alerts
// Implementations can support different channels (in-app, email, SMS, etc.)
type LowStockNotifier interface {
	// SendAlert sends a low stock alert notification
	SendAlert(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert represents a low stock notification payload
type LowStockAlert struct {
	TenantID    string `json:"tenant_id"`
	VariantID   string `json:"variant_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Available   int64  `json:"available"`
	StockOnHand int64  `json:"stock_on_hand"`
	Reserved    int64  `json:"reserved"`
	Threshold   int64  `json:"threshold"`
	AlertType   string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewLowStockHandler creates a new handler for stock below threshold events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeStockBelowThreshold),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("stock below threshold detected",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("variant_id", event.AggregateID().String()),
		zap.String("sku", thresholdEvent.SKU),
		zap.Int64("available", thresholdEvent.Available),
		zap.Int64("stock_on_hand", thresholdEvent.StockOnHand),
		zap.Int64("reserved", thresholdEvent.Reserved),
		zap.Int64("threshold", thresholdEvent.Threshold),
	)

	alertType := "low_stock"
	if thresholdEvent.Available <= 0 {
		alertType = "out_of_stock"
	}

	alert := LowStockAlert{
		TenantID:    event.TenantID().String(),
		VariantID:   event.AggregateID().String(),
		SKU:         thresholdEvent.SKU,
		Name:        thresholdEvent.Name,
		Available:   thresholdEvent.Available,
		StockOnHand: thresholdEvent.StockOnHand,
		Reserved:    thresholdEvent.Reserved,
		Threshold:   thresholdEvent.Threshold,
		AlertType:   alertType,
	}

	if h.notifier != nil {
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("failed to send low stock alert",
				zap.String("sku", alert.SKU),
				zap.Error(err),
			)
			// Notification failure never fails the event handling
		} else {
			h.logger.Info("low stock alert sent",
				zap.String("sku", alert.SKU),
				zap.String("alert_type", alertType),
			)
		}
	}

	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingLowStockNotifier is a simple notifier that logs alerts
// This is useful for development and testing
type LoggingLowStockNotifier struct {
	logger *zap.Logger
}

// NewLoggingLowStockNotifier creates a new logging notifier
func NewLoggingLowStockNotifier(logger *zap.Logger) *LoggingLowStockNotifier {
	return &LoggingLowStockNotifier{
		logger: logger,
	}
}

// SendAlert logs the low stock alert
func (n *LoggingLowStockNotifier) SendAlert(ctx context.Context, alert LowStockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("sku", alert.SKU),
		zap.String("name", alert.Name),
		zap.Int64("available", alert.Available),
		zap.Int64("threshold", alert.Threshold),
	)
	return nil
}

// Ensure LoggingLowStockNotifier implements LowStockNotifier
var _ LowStockNotifier = (*LoggingLowStockNotifier)(nil)
