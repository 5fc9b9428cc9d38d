package trade

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(uuid.New(), "ORD-20260830-0001", "Test Customer", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func createTestOrderWithLine(t *testing.T) *Order {
	t.Helper()
	order := createTestOrder(t)
	_, err := order.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 2, decimal.NewFromInt(150), decimal.NewFromInt(90))
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates order in the default status", func(t *testing.T) {
		order, err := NewOrder(tenantID, "ORD-20260830-0001", "Test Customer", decimal.NewFromInt(50), decimal.NewFromInt(20))
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, OrderStatusNew, order.StatusCode)
		assert.Equal(t, tenantID, order.TenantID)
		assert.Equal(t, "ORD-20260830-0001", order.OrderNumber)
		assert.True(t, order.Subtotal.IsZero())
		assert.Nil(t, order.ShippedAt)
		assert.Nil(t, order.DeliveredAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("fails with empty order number", func(t *testing.T) {
		order, err := NewOrder(tenantID, "", "Test Customer", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with order number over 50 characters", func(t *testing.T) {
		order, err := NewOrder(tenantID, strings.Repeat("9", 51), "Test Customer", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with empty customer name", func(t *testing.T) {
		order, err := NewOrder(tenantID, "ORD-20260830-0001", "", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with negative shipping cost", func(t *testing.T) {
		order, err := NewOrder(tenantID, "ORD-20260830-0001", "Test Customer", decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with negative discount", func(t *testing.T) {
		order, err := NewOrder(tenantID, "ORD-20260830-0001", "Test Customer", decimal.Zero, decimal.NewFromInt(-1))
		assert.Error(t, err)
		assert.Nil(t, order)
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("adds line and recalculates totals", func(t *testing.T) {
		order, err := NewOrder(uuid.New(), "ORD-1", "Test Customer", decimal.NewFromInt(30), decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = order.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 2, decimal.NewFromInt(150), decimal.NewFromInt(90))
		require.NoError(t, err)
		_, err = order.AddLine(uuid.New(), "SKU-002", "Blue T-Shirt / XL", 1, decimal.NewFromInt(200), decimal.NewFromInt(110))
		require.NoError(t, err)

		assert.Equal(t, 2, order.LineCount())
		assert.Equal(t, int64(3), order.TotalQuantity())
		// 2*150 + 1*200 = 500
		assert.Equal(t, "500", order.Subtotal.String())
		// 500 + 30 - 10 = 520
		assert.Equal(t, "520", order.Total.String())
		// 2*(150-90) + 1*(200-110) = 210
		assert.Equal(t, "210", order.Profit.String())
	})

	t.Run("fails after the order leaves its initial status", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))

		_, err := order.AddLine(uuid.New(), "SKU-003", "Another", 1, decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, 1, order.LineCount())
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 0, decimal.NewFromInt(150), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("fails with negative unit price", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 1, decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestOrderLine_Margin(t *testing.T) {
	t.Run("margin is quantity times price minus cost", func(t *testing.T) {
		line, err := NewOrderLine(uuid.New(), uuid.New(), "SKU-001", "Blue T-Shirt / L", 3, decimal.NewFromInt(150), decimal.NewFromInt(90))
		require.NoError(t, err)
		assert.Equal(t, "180", line.Margin().String())
	})

	t.Run("uncosted snapshot counts the full price as margin", func(t *testing.T) {
		line, err := NewOrderLine(uuid.New(), uuid.New(), "SKU-001", "Blue T-Shirt / L", 2, decimal.NewFromInt(150), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "300", line.Margin().String())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("walks the full forward chain stamping timestamps", func(t *testing.T) {
		order := createTestOrderWithLine(t)

		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))
		require.NoError(t, order.TransitionTo(OrderStatusPreparing))
		require.NoError(t, order.TransitionTo(OrderStatusReady))
		assert.Nil(t, order.ShippedAt)

		require.NoError(t, order.TransitionTo(OrderStatusShipped))
		require.NotNil(t, order.ShippedAt)
		assert.Nil(t, order.DeliveredAt)

		require.NoError(t, order.TransitionTo(OrderStatusDelivered))
		require.NotNil(t, order.DeliveredAt)
		assert.Equal(t, OrderStatusDelivered, order.StatusCode)
	})

	t.Run("fails on an edge the graph does not contain", func(t *testing.T) {
		order := createTestOrderWithLine(t)

		err := order.TransitionTo(OrderStatusDelivered)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
		assert.Equal(t, OrderStatusNew, order.StatusCode)
	})

	t.Run("fails to cancel once shipped", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))
		require.NoError(t, order.TransitionTo(OrderStatusPreparing))
		require.NoError(t, order.TransitionTo(OrderStatusReady))
		require.NoError(t, order.TransitionTo(OrderStatusShipped))

		err := order.TransitionTo(OrderStatusCancelled)

		assert.Error(t, err)
		assert.Equal(t, OrderStatusShipped, order.StatusCode)
	})

	t.Run("allows return after delivery", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))
		require.NoError(t, order.TransitionTo(OrderStatusPreparing))
		require.NoError(t, order.TransitionTo(OrderStatusReady))
		require.NoError(t, order.TransitionTo(OrderStatusShipped))
		require.NoError(t, order.TransitionTo(OrderStatusDelivered))

		require.NoError(t, order.TransitionTo(OrderStatusReturned))
		assert.Equal(t, OrderStatusReturned, order.StatusCode)
	})

	t.Run("terminal statuses have no outgoing edges", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		require.NoError(t, order.TransitionTo(OrderStatusCancelled))

		for _, target := range AllOrderStatusCodes() {
			if target == OrderStatusCancelled {
				continue
			}
			assert.Error(t, order.TransitionTo(target), "CANCELLED to %s should be rejected", target)
		}
	})

	t.Run("fails on an unknown code", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		err := order.TransitionTo("ARCHIVED")
		assert.Error(t, err)
	})

	t.Run("raises status changed event on every transition", func(t *testing.T) {
		order := createTestOrderWithLine(t)

		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderStatusChanged, events[0].EventType())
	})

	t.Run("raises cancellation event alongside the status change", func(t *testing.T) {
		order := createTestOrderWithLine(t)

		require.NoError(t, order.TransitionTo(OrderStatusCancelled))

		events := order.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeOrderCancelled, events[0].EventType())
		assert.Equal(t, EventTypeOrderStatusChanged, events[1].EventType())
	})
}

func TestOrder_CanDelete(t *testing.T) {
	t.Run("new and cancelled orders can be deleted", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		assert.True(t, order.CanDelete())

		require.NoError(t, order.TransitionTo(OrderStatusCancelled))
		assert.True(t, order.CanDelete())
	})

	t.Run("orders past review cannot be deleted", func(t *testing.T) {
		order := createTestOrderWithLine(t)
		require.NoError(t, order.TransitionTo(OrderStatusUnderReview))
		assert.False(t, order.CanDelete())
	})
}

func TestOrder_HoldsReservation(t *testing.T) {
	order := createTestOrderWithLine(t)
	assert.True(t, order.HoldsReservation())

	require.NoError(t, order.TransitionTo(OrderStatusUnderReview))
	require.NoError(t, order.TransitionTo(OrderStatusPreparing))
	require.NoError(t, order.TransitionTo(OrderStatusReady))
	require.NoError(t, order.TransitionTo(OrderStatusShipped))
	assert.True(t, order.HoldsReservation())

	require.NoError(t, order.TransitionTo(OrderStatusDelivered))
	assert.False(t, order.HoldsReservation())
}
