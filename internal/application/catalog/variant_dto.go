package catalog

import (
	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// RegisterVariantRequest carries the identity fields of a new variant.
// Stock starts empty and the cost is unset until the first costed receipt.
type RegisterVariantRequest struct {
	SKU               string
	Name              string
	LowStockThreshold int64
}

// UpdateVariantRequest updates a variant's display fields
type UpdateVariantRequest struct {
	Name              *string
	LowStockThreshold *int64
}

// VariantResponse is the stock view of one variant
type VariantResponse struct {
	ID                uuid.UUID        `json:"id"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	StockOnHand       int64            `json:"stock_on_hand"`
	Reserved          int64            `json:"reserved"`
	Available         int64            `json:"available"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	LowStockThreshold int64            `json:"low_stock_threshold"`
	IsLowStock        bool             `json:"is_low_stock"`
	Version           int              `json:"version"`
}

// VariantListFilter is the query surface of the stock listing
type VariantListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	LowStock bool
}

// ToVariantResponse converts a domain variant to its read model
func ToVariantResponse(variant *catalog.Variant) VariantResponse {
	resp := VariantResponse{
		ID:                variant.ID,
		SKU:               variant.SKU,
		Name:              variant.Name,
		StockOnHand:       variant.StockOnHand,
		Reserved:          variant.Reserved,
		Available:         variant.Available(),
		LowStockThreshold: variant.LowStockThreshold,
		IsLowStock:        variant.IsLowStock(),
		Version:           variant.Version,
	}
	if variant.UnitCost.Valid {
		cost := variant.UnitCost.Decimal
		resp.UnitCost = &cost
	}
	return resp
}

// ToVariantResponses converts a slice of domain variants
func ToVariantResponses(variants []catalog.Variant) []VariantResponse {
	responses := make([]VariantResponse, len(variants))
	for i := range variants {
		responses[i] = ToVariantResponse(&variants[i])
	}
	return responses
}
