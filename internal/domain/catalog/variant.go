package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Variant represents a single sellable SKU-level unit and is the aggregate
// that owns its stock ledger: quantity on hand, quantity reserved against
// open orders, and the current weighted-average unit cost.
//
// Stock fields are mutated only through the ledger methods below, always
// inside the caller's transaction on a row loaded for update. The invariant
// 0 <= Reserved <= StockOnHand holds after every mutation.
type Variant struct {
	shared.TenantAggregateRoot
	SKU               string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_tenant_sku,priority:2"`
	Name              string              `gorm:"type:varchar(255);not null"`
	StockOnHand       int64               `gorm:"not null;default:0"`
	Reserved          int64               `gorm:"not null;default:0"`
	UnitCost          decimal.NullDecimal `gorm:"type:decimal(18,4)"` // Null until first costed receipt
	LowStockThreshold int64               `gorm:"not null;default:0"` // 0 disables low-stock alerts
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewVariant creates a new variant with empty stock and no cost
func NewVariant(tenantID uuid.UUID, sku, name string) (*Variant, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Variant name cannot be empty")
	}

	v := &Variant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		StockOnHand:         0,
		Reserved:            0,
	}

	v.AddDomainEvent(NewVariantRegisteredEvent(v))

	return v, nil
}

// Available returns the quantity that can still be reserved
func (v *Variant) Available() int64 {
	return v.StockOnHand - v.Reserved
}

// HasCost returns true once a unit cost has been established
func (v *Variant) HasCost() bool {
	return v.UnitCost.Valid
}

// CostOrZero returns the unit cost, or zero when no cost is set yet.
// Used for profit snapshots on order lines.
func (v *Variant) CostOrZero() decimal.Decimal {
	if v.UnitCost.Valid {
		return v.UnitCost.Decimal
	}
	return decimal.Zero
}

// Reserve earmarks qty units against an open order.
// Fails when the available quantity (on hand minus already reserved) is
// smaller than qty; nothing is changed in that case.
func (v *Variant) Reserve(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if v.Available() < qty {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", v.SKU, qty, v.Available()))
	}

	before := v.Reserved
	v.Reserved += qty
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockReservedEvent(v, qty, before))
	v.raiseLowStockIfNeeded()

	return v.checkStockInvariant()
}

// Release gives back qty reserved units without touching the on-hand
// quantity. The reservation is floored at zero; releasing more than is
// reserved is tolerated so that cancellation paths never fail here.
func (v *Variant) Release(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	before := v.Reserved
	v.Reserved -= qty
	if v.Reserved < 0 {
		v.Reserved = 0
	}
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockReleasedEvent(v, qty, before))

	return v.checkStockInvariant()
}

// Fulfil converts a reservation into a permanent deduction: both the
// on-hand quantity and the reservation drop by qty, each floored at zero.
// Used when an order is delivered.
func (v *Variant) Fulfil(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	beforeOnHand := v.StockOnHand
	beforeReserved := v.Reserved

	v.StockOnHand -= qty
	if v.StockOnHand < 0 {
		v.StockOnHand = 0
	}
	v.Reserved -= qty
	if v.Reserved < 0 {
		v.Reserved = 0
	}
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockFulfilledEvent(v, qty, beforeOnHand, beforeReserved))

	return v.checkStockInvariant()
}

// Increase adds qty units to the on-hand quantity. Used by purchase
// invoice acceptance.
func (v *Variant) Increase(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	before := v.StockOnHand
	v.StockOnHand += qty
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockIncreasedEvent(v, qty, before))

	return v.checkStockInvariant()
}

// Decrease removes qty units from the on-hand quantity. Used by purchase
// invoice un-acceptance. Fails when the removal would cross zero or would
// leave less on hand than is reserved; nothing is changed in that case.
func (v *Variant) Decrease(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if v.StockOnHand-qty < 0 {
		return shared.NewDomainError("NEGATIVE_STOCK",
			fmt.Sprintf("Cannot remove %d units of %s: only %d on hand", qty, v.SKU, v.StockOnHand))
	}
	if v.StockOnHand-qty < v.Reserved {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot remove %d units of %s: %d are reserved against open orders", qty, v.SKU, v.Reserved))
	}

	before := v.StockOnHand
	v.StockOnHand -= qty
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewStockDecreasedEvent(v, qty, before))

	return v.checkStockInvariant()
}

// SetCost overwrites the unit cost. Used both by weighted-average
// application on purchase acceptance and by rollback on un-acceptance.
func (v *Variant) SetCost(newCost decimal.Decimal) error {
	if newCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldCost := v.UnitCost
	v.UnitCost = decimal.NewNullDecimal(newCost)
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewVariantCostChangedEvent(v, oldCost, v.UnitCost))

	return nil
}

// ClearCost removes the unit cost, returning the variant to its uncosted
// state. Only used by rollbacks of a first-ever costed receipt.
func (v *Variant) ClearCost() {
	oldCost := v.UnitCost
	v.UnitCost = decimal.NullDecimal{}
	v.UpdatedAt = time.Now()

	v.AddDomainEvent(NewVariantCostChangedEvent(v, oldCost, v.UnitCost))
}

// SetLowStockThreshold updates the alert threshold; zero disables alerts
func (v *Variant) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	v.LowStockThreshold = threshold
	v.UpdatedAt = time.Now()
	return nil
}

// IsLowStock returns true when available stock sits at or below the threshold
func (v *Variant) IsLowStock() bool {
	return v.LowStockThreshold > 0 && v.Available() <= v.LowStockThreshold
}

// Rename updates the display name
func (v *Variant) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Variant name cannot be empty")
	}
	v.Name = name
	v.UpdatedAt = time.Now()
	return nil
}

func (v *Variant) raiseLowStockIfNeeded() {
	if v.IsLowStock() {
		v.AddDomainEvent(NewStockBelowThresholdEvent(v))
	}
}

// checkStockInvariant verifies 0 <= Reserved <= StockOnHand after a mutation
func (v *Variant) checkStockInvariant() error {
	if v.StockOnHand < 0 || v.Reserved < 0 || v.Reserved > v.StockOnHand {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Stock invariant violated for %s: on hand %d, reserved %d", v.SKU, v.StockOnHand, v.Reserved))
	}
	return nil
}
