package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BlendedUnitCost computes the stock-weighted average of a variant's
// existing cost and an incoming receipt. With no existing cost the
// incoming average becomes the cost outright; otherwise
//
//	(oldCost*oldStock + incomingAvg*addQty) / (oldStock + addQty)
//
// The result is rounded half away from zero to a whole unit, matching
// how invoice costs are displayed and audited.
func BlendedUnitCost(oldCost decimal.NullDecimal, oldStock int64, incomingAvg decimal.Decimal, addQty int64) decimal.Decimal {
	if addQty <= 0 {
		if oldCost.Valid {
			return oldCost.Decimal
		}
		return decimal.Zero
	}
	if !oldCost.Valid || oldStock <= 0 {
		return incomingAvg.Round(0)
	}

	oldQty := decimal.NewFromInt(oldStock)
	newQty := decimal.NewFromInt(addQty)
	blended := oldCost.Decimal.Mul(oldQty).
		Add(incomingAvg.Mul(newQty)).
		Div(oldQty.Add(newQty))
	return blended.Round(0)
}

// CostingEffect describes what accepting an invoice would do to one
// variant: the stock delta and the cost recomputation. Produced both by
// the dry-run preview and by acceptance itself so the two can never
// drift apart.
type CostingEffect struct {
	VariantID       uuid.UUID
	SKU             string
	AddedQty        int64
	OldStock        int64
	NewStock        int64
	OldCost         decimal.NullDecimal
	IncomingAvgCost decimal.Decimal
	NewCost         decimal.Decimal
}

// CostChanged reports whether applying the effect alters the variant's
// cost. A previously uncosted variant always counts as changed.
func (e CostingEffect) CostChanged() bool {
	if !e.OldCost.Valid {
		return true
	}
	return !e.OldCost.Decimal.Equal(e.NewCost)
}
