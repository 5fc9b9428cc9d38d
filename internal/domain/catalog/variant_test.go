package catalog

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestVariant(t *testing.T) *Variant {
	t.Helper()
	v, err := NewVariant(uuid.New(), "SKU-001", "Blue T-Shirt / L")
	require.NoError(t, err)
	v.ClearDomainEvents()
	return v
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewVariant(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates variant successfully", func(t *testing.T) {
		v, err := NewVariant(tenantID, "SKU-001", "Blue T-Shirt / L")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, v.ID)
		assert.Equal(t, tenantID, v.TenantID)
		assert.Equal(t, "SKU-001", v.SKU)
		assert.Equal(t, int64(0), v.StockOnHand)
		assert.Equal(t, int64(0), v.Reserved)
		assert.False(t, v.UnitCost.Valid)
	})

	t.Run("fails with empty SKU", func(t *testing.T) {
		v, err := NewVariant(tenantID, "", "Blue T-Shirt / L")

		require.Error(t, err)
		assert.Nil(t, v)
		assert.Contains(t, err.Error(), "SKU")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		v, err := NewVariant(tenantID, "SKU-001", "")

		require.Error(t, err)
		assert.Nil(t, v)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("emits VariantRegistered event", func(t *testing.T) {
		v, err := NewVariant(tenantID, "SKU-001", "Blue T-Shirt / L")

		require.NoError(t, err)
		events := v.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeVariantRegistered, events[0].EventType())
	})
}

func TestVariant_Reserve(t *testing.T) {
	t.Run("reserves available stock", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10

		err := v.Reserve(4)

		require.NoError(t, err)
		assert.Equal(t, int64(4), v.Reserved)
		assert.Equal(t, int64(10), v.StockOnHand)
		assert.Equal(t, int64(6), v.Available())
	})

	t.Run("fails when requested quantity exceeds availability", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 7

		err := v.Reserve(4)

		require.Error(t, err)
		assertDomainErrorCode(t, err, "INSUFFICIENT_STOCK")
		assert.Contains(t, err.Error(), "SKU-001")
		assert.Equal(t, int64(7), v.Reserved)
	})

	t.Run("allows reserving exactly the available quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 6

		err := v.Reserve(4)

		require.NoError(t, err)
		assert.Equal(t, int64(10), v.Reserved)
		assert.Equal(t, int64(0), v.Available())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10

		require.Error(t, v.Reserve(0))
		require.Error(t, v.Reserve(-3))
		assert.Equal(t, int64(0), v.Reserved)
	})

	t.Run("emits StockReserved event", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10

		err := v.Reserve(4)

		require.NoError(t, err)
		events := v.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReserved, events[0].EventType())
	})

	t.Run("emits StockBelowThreshold when availability drops to threshold", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.LowStockThreshold = 3

		err := v.Reserve(7)

		require.NoError(t, err)
		events := v.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockReserved, events[0].EventType())
		assert.Equal(t, EventTypeStockBelowThreshold, events[1].EventType())
	})
}

func TestVariant_Release(t *testing.T) {
	t.Run("releases reserved stock without touching on hand quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 4

		err := v.Release(4)

		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Reserved)
		assert.Equal(t, int64(10), v.StockOnHand)
	})

	t.Run("floors the reservation at zero", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 2

		err := v.Release(5)

		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Reserved)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.Reserved = 2

		require.Error(t, v.Release(0))
		assert.Equal(t, int64(2), v.Reserved)
	})
}

func TestVariant_Fulfil(t *testing.T) {
	t.Run("deducts both on hand and reserved quantities", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 3

		err := v.Fulfil(3)

		require.NoError(t, err)
		assert.Equal(t, int64(7), v.StockOnHand)
		assert.Equal(t, int64(0), v.Reserved)
	})

	t.Run("floors both quantities at zero", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 2
		v.Reserved = 2

		err := v.Fulfil(5)

		require.NoError(t, err)
		assert.Equal(t, int64(0), v.StockOnHand)
		assert.Equal(t, int64(0), v.Reserved)
	})

	t.Run("emits StockFulfilled event", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 3

		err := v.Fulfil(3)

		require.NoError(t, err)
		events := v.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockFulfilled, events[0].EventType())
	})
}

func TestVariant_Increase(t *testing.T) {
	t.Run("adds to on hand quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10

		err := v.Increase(5)

		require.NoError(t, err)
		assert.Equal(t, int64(15), v.StockOnHand)
		assert.Equal(t, int64(0), v.Reserved)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		v := createTestVariant(t)

		require.Error(t, v.Increase(0))
		require.Error(t, v.Increase(-1))
	})
}

func TestVariant_Decrease(t *testing.T) {
	t.Run("removes from on hand quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10

		err := v.Decrease(4)

		require.NoError(t, err)
		assert.Equal(t, int64(6), v.StockOnHand)
	})

	t.Run("fails when removal would cross zero", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 3

		err := v.Decrease(5)

		require.Error(t, err)
		assertDomainErrorCode(t, err, "NEGATIVE_STOCK")
		assert.Contains(t, err.Error(), "SKU-001")
		assert.Equal(t, int64(3), v.StockOnHand)
	})

	t.Run("fails when removal would leave less on hand than reserved", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 10
		v.Reserved = 8

		err := v.Decrease(5)

		require.Error(t, err)
		assertDomainErrorCode(t, err, "INVALID_STATE")
	})

	t.Run("allows removing exactly the on hand quantity", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 5

		err := v.Decrease(5)

		require.NoError(t, err)
		assert.Equal(t, int64(0), v.StockOnHand)
	})
}

func TestVariant_SetCost(t *testing.T) {
	t.Run("sets cost on uncosted variant", func(t *testing.T) {
		v := createTestVariant(t)
		require.False(t, v.HasCost())

		err := v.SetCost(decimal.NewFromInt(80))

		require.NoError(t, err)
		require.True(t, v.HasCost())
		assert.Equal(t, "80", v.UnitCost.Decimal.String())
	})

	t.Run("overwrites an existing cost", func(t *testing.T) {
		v := createTestVariant(t)
		require.NoError(t, v.SetCost(decimal.NewFromInt(100)))

		err := v.SetCost(decimal.NewFromInt(150))

		require.NoError(t, err)
		assert.Equal(t, "150", v.UnitCost.Decimal.String())
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		v := createTestVariant(t)

		err := v.SetCost(decimal.NewFromInt(-1))

		require.Error(t, err)
		assert.False(t, v.HasCost())
	})

	t.Run("emits VariantCostChanged event", func(t *testing.T) {
		v := createTestVariant(t)

		require.NoError(t, v.SetCost(decimal.NewFromInt(80)))

		events := v.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeVariantCostChanged, events[0].EventType())
	})
}

func TestVariant_ClearCost(t *testing.T) {
	v := createTestVariant(t)
	require.NoError(t, v.SetCost(decimal.NewFromInt(80)))

	v.ClearCost()

	assert.False(t, v.HasCost())
	assert.True(t, v.CostOrZero().IsZero())
}

func TestVariant_StockInvariant(t *testing.T) {
	t.Run("holds across a realistic mutation sequence", func(t *testing.T) {
		v := createTestVariant(t)

		require.NoError(t, v.Increase(20))
		require.NoError(t, v.Reserve(8))
		require.NoError(t, v.Release(3))
		require.NoError(t, v.Fulfil(5))
		require.NoError(t, v.Reserve(2))
		require.NoError(t, v.Decrease(10))

		assert.GreaterOrEqual(t, v.Reserved, int64(0))
		assert.GreaterOrEqual(t, v.StockOnHand, v.Reserved)
	})
}

func TestVariant_IsLowStock(t *testing.T) {
	t.Run("zero threshold disables alerts", func(t *testing.T) {
		v := createTestVariant(t)
		v.StockOnHand = 0

		assert.False(t, v.IsLowStock())
	})

	t.Run("reports low stock at or below threshold", func(t *testing.T) {
		v := createTestVariant(t)
		v.LowStockThreshold = 5
		v.StockOnHand = 8
		v.Reserved = 3

		assert.True(t, v.IsLowStock())
	})
}
