package persistence

import "strings"

// Sort parameters arrive from query strings and get concatenated into
// ORDER BY clauses, so both the column and the direction go through a
// whitelist; anything unrecognized falls back to a safe default.

// ValidateSortOrder normalizes a direction to ASC or DESC, defaulting
// to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns the field if it appears in the whitelist,
// otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Per-aggregate sortable columns. Each holds the audit columns plus the
// listing columns its list endpoint exposes.

var VariantSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"sku":                 true,
	"name":                true,
	"stock_on_hand":       true,
	"reserved":            true,
	"unit_cost":           true,
	"low_stock_threshold": true,
}

var OrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"customer_name": true,
	"status_code":   true,
	"subtotal":      true,
	"total":         true,
	"profit":        true,
}

var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"phone":      true,
	"email":      true,
}

var PurchaseInvoiceSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"receipt_number":   true,
	"status":           true,
	"subtotal":         true,
	"total":            true,
	"paid_amount":      true,
	"remaining_amount": true,
}
