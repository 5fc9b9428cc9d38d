package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatusRepository implements StatusRepository using GORM
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// FindByCode finds a tenant's status record by code
func (r *GormStatusRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode) (*trade.Status, error) {
	var status trade.Status
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// FindDefault finds the tenant's default status for new orders
func (r *GormStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*trade.Status, error) {
	var status trade.Status
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// FindAllForTenant returns the tenant's full status catalog in lifecycle
// order. The order is defined by the code set, not by a column.
func (r *GormStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]trade.Status, error) {
	var statuses []trade.Status
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&statuses).Error; err != nil {
		return nil, err
	}

	rank := make(map[trade.OrderStatusCode]int)
	for i, code := range trade.AllOrderStatusCodes() {
		rank[code] = i
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return rank[statuses[i].Code] < rank[statuses[j].Code]
	})

	return statuses, nil
}

// Save creates or updates a status record
func (r *GormStatusRepository) Save(ctx context.Context, status *trade.Status) error {
	return r.db.WithContext(ctx).Save(status).Error
}

// SeedDefaults idempotently inserts the canonical status set for a tenant.
// Existing rows keep any display customization the tenant made.
func (r *GormStatusRepository) SeedDefaults(ctx context.Context, tenantID uuid.UUID) error {
	statuses := trade.DefaultStatuses(tenantID)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&statuses).Error
}

// Ensure GormStatusRepository implements StatusRepository
var _ trade.StatusRepository = (*GormStatusRepository)(nil)
