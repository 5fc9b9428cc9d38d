package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormOrderHistoryRepository implements OrderHistoryRepository using GORM
type GormOrderHistoryRepository struct {
	db *gorm.DB
}

// NewGormOrderHistoryRepository creates a new GormOrderHistoryRepository
func NewGormOrderHistoryRepository(db *gorm.DB) *GormOrderHistoryRepository {
	return &GormOrderHistoryRepository{db: db}
}

// Append writes a history entry
func (r *GormOrderHistoryRepository) Append(ctx context.Context, entry *trade.OrderHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByOrder returns an order's history, oldest first
func (r *GormOrderHistoryRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.OrderHistoryEntry, error) {
	var entries []trade.OrderHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByOrder removes an order's history rows with the order
func (r *GormOrderHistoryRepository) DeleteByOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Delete(&trade.OrderHistoryEntry{}).Error
}

// Ensure GormOrderHistoryRepository implements OrderHistoryRepository
var _ trade.OrderHistoryRepository = (*GormOrderHistoryRepository)(nil)
