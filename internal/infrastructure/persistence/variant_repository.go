package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormVariantRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDForTenant finds a variant by ID within a tenant
func (r *GormVariantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDForTenantLocked finds a variant under a row-level update lock.
// The lock is held until the surrounding transaction commits or rolls back.
func (r *GormVariantRepository) FindByIDForTenantLocked(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDsForTenantLocked loads multiple variants under update locks in
// ascending ID order so concurrent transactions acquire locks in the same
// sequence and cannot deadlock each other.
func (r *GormVariantRepository) FindByIDsForTenantLocked(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return []catalog.Variant{}, nil
	}

	var variants []catalog.Variant
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindBySKU finds a variant by SKU within a tenant
func (r *GormVariantRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindAllForTenant finds all variants for a tenant
func (r *GormVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Variant{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindBelowThreshold finds variants at or below their low-stock threshold
func (r *GormVariantRepository) FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Variant{}).
			Where("tenant_id = ? AND low_stock_threshold > 0 AND (stock_on_hand - reserved) <= low_stock_threshold", tenantID),
		filter,
	)

	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormVariantRepository) SaveWithLock(ctx context.Context, variant *catalog.Variant) error {
	result := r.db.WithContext(ctx).
		Model(variant).
		Where("id = ? AND version = ?", variant.ID, variant.Version-1).
		Updates(map[string]interface{}{
			"name":                variant.Name,
			"stock_on_hand":       variant.StockOnHand,
			"reserved":            variant.Reserved,
			"unit_cost":           variant.UnitCost,
			"low_stock_threshold": variant.LowStockThreshold,
			"version":             variant.Version,
			"updated_at":          variant.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Variant was modified by another transaction")
	}
	return nil
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain
// events to the outbox in the same transaction
func (r *GormVariantRepository) SaveWithLockAndEvents(ctx context.Context, variant *catalog.Variant, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormVariantRepository{db: tx, outboxSaver: r.outboxSaver}
		if err := scoped.SaveWithLock(ctx, variant); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			return r.outboxSaver.SaveEvents(ctx, tx, events...)
		}
		return nil
	})
}

// DeleteForTenant deletes a variant within a tenant
func (r *GormVariantRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Variant{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts variants matching the filter
func (r *GormVariantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Variant{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBelowThreshold counts variants at or below their low-stock threshold
func (r *GormVariantRepository) CountBelowThreshold(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("tenant_id = ? AND low_stock_threshold > 0 AND (stock_on_hand - reserved) <= low_stock_threshold", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if a SKU is already taken within a tenant
func (r *GormVariantRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormVariantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, VariantSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormVariantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "low_stock":
			if value == true {
				query = query.Where("low_stock_threshold > 0 AND (stock_on_hand - reserved) <= low_stock_threshold")
			}
		case "has_stock":
			if value == true {
				query = query.Where("stock_on_hand - reserved > 0")
			}
		case "uncosted":
			if value == true {
				query = query.Where("unit_cost IS NULL")
			}
		}
	}

	return query
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
