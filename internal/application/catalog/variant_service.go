package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/shared"
)

// VariantService registers variants and serves stock views. Stock levels
// themselves are only ever changed by the order and purchase workflows;
// this service touches identity and display fields.
type VariantService struct {
	repo catalog.VariantRepository
}

// NewVariantService creates a new VariantService
func NewVariantService(repo catalog.VariantRepository) *VariantService {
	return &VariantService{repo: repo}
}

// Register creates a new variant with empty stock and no cost
func (s *VariantService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterVariantRequest) (*VariantResponse, error) {
	exists, err := s.repo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A variant with SKU "+req.SKU+" already exists")
	}

	variant, err := catalog.NewVariant(tenantID, req.SKU, req.Name)
	if err != nil {
		return nil, err
	}
	if req.LowStockThreshold > 0 {
		if err := variant.SetLowStockThreshold(req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, variant); err != nil {
		return nil, err
	}
	variant.ClearDomainEvents()

	resp := ToVariantResponse(variant)
	return &resp, nil
}

// Get returns the stock view of one variant
func (s *VariantService) Get(ctx context.Context, tenantID, id uuid.UUID) (*VariantResponse, error) {
	variant, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant)
	return &resp, nil
}

// GetBySKU returns the stock view of the variant with the given SKU
func (s *VariantService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*VariantResponse, error) {
	variant, err := s.repo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant)
	return &resp, nil
}

// Update changes a variant's name or low-stock threshold
func (s *VariantService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	variant, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := variant.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := variant.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	variant.IncrementVersion()
	if err := s.repo.SaveWithLock(ctx, variant); err != nil {
		return nil, err
	}
	variant.ClearDomainEvents()

	resp := ToVariantResponse(variant)
	return &resp, nil
}

// List returns a page of the tenant's stock listing
func (s *VariantService) List(ctx context.Context, tenantID uuid.UUID, filter VariantListFilter) ([]VariantResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	var (
		variants []catalog.Variant
		total    int64
		err      error
	)
	if filter.LowStock {
		variants, err = s.repo.FindBelowThreshold(ctx, tenantID, domainFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.repo.CountBelowThreshold(ctx, tenantID)
	} else {
		variants, err = s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.repo.CountForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToVariantResponses(variants), total, nil
}

// LowStock returns every variant at or below its threshold
func (s *VariantService) LowStock(ctx context.Context, tenantID uuid.UUID, filter VariantListFilter) ([]VariantResponse, int64, error) {
	filter.LowStock = true
	return s.List(ctx, tenantID, filter)
}

func (s *VariantService) toDomainFilter(filter VariantListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sku"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
}
