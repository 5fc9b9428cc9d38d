package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/partner"
	"github.com/oms/backend/internal/domain/shared"
)

// SupplierService manages the supplier directory purchase invoices
// reference.
type SupplierService struct {
	repo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repo partner.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.repo.ExistsByName(ctx, tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier named "+req.Name+" already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.Notes = req.Notes

	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	supplier.ClearDomainEvents()

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID returns one supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.repo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns a page of the tenant's suppliers
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	suppliers, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplierResponses(suppliers), total, nil
}

// Update replaces a supplier's contact information
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.repo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != supplier.Name {
		exists, err := s.repo.ExistsByName(ctx, tenantID, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier named "+req.Name+" already exists")
		}
	}

	if err := supplier.Update(req.Name, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	supplier.ClearDomainEvents()

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, tenantID, supplierID)
}
