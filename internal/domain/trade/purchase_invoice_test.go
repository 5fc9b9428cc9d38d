package trade

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T) *PurchaseInvoice {
	t.Helper()
	invoice, err := NewPurchaseInvoice(uuid.New(), uuid.New(), "RCPT-001", decimal.Zero)
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	return invoice
}

func TestNewPurchaseInvoice(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()

	t.Run("creates a pending invoice", func(t *testing.T) {
		invoice, err := NewPurchaseInvoice(tenantID, supplierID, "RCPT-001", decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NotNil(t, invoice)

		assert.Equal(t, PurchaseStatusPending, invoice.Status)
		assert.Equal(t, supplierID, invoice.SupplierID)
		assert.Equal(t, "RCPT-001", invoice.ReceiptNumber)
		assert.Equal(t, "100", invoice.PaidAmount.String())

		events := invoice.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseInvoiceCreated, events[0].EventType())
	})

	t.Run("fails with empty supplier", func(t *testing.T) {
		invoice, err := NewPurchaseInvoice(tenantID, uuid.Nil, "RCPT-001", decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, invoice)
	})

	t.Run("fails with empty receipt number", func(t *testing.T) {
		invoice, err := NewPurchaseInvoice(tenantID, supplierID, "", decimal.Zero)
		assert.Error(t, err)
		assert.Nil(t, invoice)
	})

	t.Run("fails with negative paid amount", func(t *testing.T) {
		invoice, err := NewPurchaseInvoice(tenantID, supplierID, "RCPT-001", decimal.NewFromInt(-1))
		assert.Error(t, err)
		assert.Nil(t, invoice)
	})
}

func TestPurchaseInvoice_AddLine(t *testing.T) {
	t.Run("adds line and recalculates totals", func(t *testing.T) {
		invoice, err := NewPurchaseInvoice(uuid.New(), uuid.New(), "RCPT-001", decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)

		assert.Equal(t, 1, invoice.LineCount())
		assert.Equal(t, "400", invoice.Subtotal.String())
		assert.Equal(t, "400", invoice.Total.String())
		assert.Equal(t, "300", invoice.RemainingAmount.String())
	})

	t.Run("fails once the invoice is accepted", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)
		require.NoError(t, invoice.TransitionTo(PurchaseStatusAccepted))

		_, err = invoice.AddLine(uuid.New(), "SKU-002", "Blue T-Shirt / XL", 1, decimal.NewFromInt(90))
		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, 1, invoice.LineCount())
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 0, decimal.NewFromInt(80))
		assert.Error(t, err)
	})

	t.Run("fails with negative cost", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 1, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestPurchaseInvoice_ReplaceLines(t *testing.T) {
	t.Run("swaps the line set while pending", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)

		replacement, err := NewPurchaseLine(invoice.ID, uuid.New(), "SKU-002", "Blue T-Shirt / XL", 2, decimal.NewFromInt(120))
		require.NoError(t, err)

		require.NoError(t, invoice.ReplaceLines([]PurchaseLine{*replacement}))
		assert.Equal(t, 1, invoice.LineCount())
		assert.Equal(t, "SKU-002", invoice.Lines[0].SKU)
		assert.Equal(t, "240", invoice.Total.String())
	})

	t.Run("fails once the invoice is accepted", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)
		require.NoError(t, invoice.TransitionTo(PurchaseStatusAccepted))

		err = invoice.ReplaceLines(nil)
		assert.Error(t, err)
	})
}

func TestPurchaseInvoice_SetPaidAmount(t *testing.T) {
	t.Run("recomputes the remainder", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)

		require.NoError(t, invoice.SetPaidAmount(decimal.NewFromInt(150)))
		assert.Equal(t, "150", invoice.PaidAmount.String())
		assert.Equal(t, "250", invoice.RemainingAmount.String())
	})

	t.Run("is allowed on an accepted invoice", func(t *testing.T) {
		invoice := createTestInvoice(t)
		_, err := invoice.AddLine(uuid.New(), "SKU-001", "Blue T-Shirt / L", 5, decimal.NewFromInt(80))
		require.NoError(t, err)
		require.NoError(t, invoice.TransitionTo(PurchaseStatusAccepted))

		assert.NoError(t, invoice.SetPaidAmount(decimal.NewFromInt(400)))
		assert.True(t, invoice.RemainingAmount.IsZero())
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		invoice := createTestInvoice(t)
		assert.Error(t, invoice.SetPaidAmount(decimal.NewFromInt(-5)))
	})
}

func TestPurchaseInvoice_TransitionTo(t *testing.T) {
	t.Run("every distinct pair of statuses is a legal edge", func(t *testing.T) {
		for _, from := range AllPurchaseStatuses() {
			for _, to := range AllPurchaseStatuses() {
				if from == to {
					continue
				}
				invoice := createTestInvoice(t)
				invoice.Status = from
				assert.NoError(t, invoice.TransitionTo(to), "%s -> %s", from, to)
				assert.Equal(t, to, invoice.Status)
			}
		}
	})

	t.Run("rejects transition to the current status", func(t *testing.T) {
		invoice := createTestInvoice(t)
		err := invoice.TransitionTo(PurchaseStatusPending)
		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		invoice := createTestInvoice(t)
		assert.Error(t, invoice.TransitionTo("archived"))
	})

	t.Run("raises a status changed event", func(t *testing.T) {
		invoice := createTestInvoice(t)
		require.NoError(t, invoice.TransitionTo(PurchaseStatusRejected))

		events := invoice.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseStatusChanged, events[0].EventType())
	})
}

func TestPurchaseInvoice_AggregateByVariant(t *testing.T) {
	t.Run("sums duplicate lines of the same variant", func(t *testing.T) {
		invoice := createTestInvoice(t)
		variantID := uuid.New()
		_, err := invoice.AddLine(variantID, "SKU-001", "Blue T-Shirt / L", 2, decimal.NewFromInt(100))
		require.NoError(t, err)
		_, err = invoice.AddLine(variantID, "SKU-001", "Blue T-Shirt / L", 3, decimal.NewFromInt(200))
		require.NoError(t, err)

		receipts := invoice.AggregateByVariant()

		require.Len(t, receipts, 1)
		assert.Equal(t, variantID, receipts[0].VariantID)
		assert.Equal(t, int64(5), receipts[0].Quantity)
		// 2*100 + 3*200 = 800
		assert.Equal(t, "800", receipts[0].CostTotal.String())
		// 800 / 5 = 160
		assert.Equal(t, "160", receipts[0].IncomingAvgCost().String())
	})

	t.Run("orders receipts by variant id", func(t *testing.T) {
		invoice := createTestInvoice(t)
		for i := 0; i < 5; i++ {
			_, err := invoice.AddLine(uuid.New(), "SKU", "Variant", 1, decimal.NewFromInt(10))
			require.NoError(t, err)
		}

		receipts := invoice.AggregateByVariant()

		require.Len(t, receipts, 5)
		for i := 1; i < len(receipts); i++ {
			assert.Less(t, receipts[i-1].VariantID.String(), receipts[i].VariantID.String())
		}
	})
}

func TestVariantReceipt_IncomingAvgCost(t *testing.T) {
	t.Run("zero quantity yields zero", func(t *testing.T) {
		r := VariantReceipt{Quantity: 0, CostTotal: decimal.NewFromInt(100)}
		assert.True(t, r.IncomingAvgCost().IsZero())
	})

	t.Run("keeps fractional precision", func(t *testing.T) {
		r := VariantReceipt{Quantity: 3, CostTotal: decimal.NewFromInt(100)}
		avg := r.IncomingAvgCost()
		assert.Equal(t, "33.3333333333333333", avg.StringFixed(16))
	})
}

func TestPurchaseStatus_Scan(t *testing.T) {
	t.Run("scans regardless of stored case", func(t *testing.T) {
		var status PurchaseStatus
		require.NoError(t, status.Scan("ACCEPTED"))
		assert.Equal(t, PurchaseStatusAccepted, status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		var status PurchaseStatus
		assert.Error(t, status.Scan("archived"))
	})
}
