package event

import (
	"context"

	"github.com/oms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotentHandler guards a handler against redelivered events. The
// outbox relay delivers at least once, so a handler that reserves
// stock or writes a ledger movement must not run twice for the same
// event id.
type IdempotentHandler struct {
	inner  shared.EventHandler
	store  shared.IdempotencyStore
	logger *zap.Logger
}

func NewIdempotentHandler(inner shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// Handle claims the event id before running the handler. When the
// store is unreachable the event is processed anyway: a duplicate
// side effect is recoverable, a dropped event is not. The claim is
// kept on handler failure so a tight redelivery loop cannot hammer a
// failing handler; the claim expires with its TTL.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	eventID := event.EventID().String()

	fresh, err := h.store.MarkProcessed(ctx, eventID, shared.ProcessedEventTTL)
	if err != nil {
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if !fresh {
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.inner.Handle(ctx, event); err != nil {
		h.logger.Error("event handler failed",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
