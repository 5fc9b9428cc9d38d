package partner

import (
	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/partner"
)

// CreateSupplierRequest carries the fields of a new supplier
type CreateSupplierRequest struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// UpdateSupplierRequest updates a supplier's contact fields
type UpdateSupplierRequest struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// SupplierResponse is the read model of one supplier
type SupplierResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone,omitempty"`
	Email   string    `json:"email,omitempty"`
	Address string    `json:"address,omitempty"`
	Notes   string    `json:"notes,omitempty"`
	Version int       `json:"version"`
}

// SupplierListFilter is the query surface of the supplier listing
type SupplierListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// ToSupplierResponse converts a domain supplier to its read model
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:      supplier.ID,
		Name:    supplier.Name,
		Phone:   supplier.Phone,
		Email:   supplier.Email,
		Address: supplier.Address,
		Notes:   supplier.Notes,
		Version: supplier.Version,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
