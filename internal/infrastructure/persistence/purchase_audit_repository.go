package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPurchaseAuditRepository implements PurchaseAuditRepository using GORM.
// The audit trail is append-only; there is no update or delete path, and
// entries outlive the invoice they describe.
type GormPurchaseAuditRepository struct {
	db *gorm.DB
}

// NewGormPurchaseAuditRepository creates a new GormPurchaseAuditRepository
func NewGormPurchaseAuditRepository(db *gorm.DB) *GormPurchaseAuditRepository {
	return &GormPurchaseAuditRepository{db: db}
}

// Append writes an audit entry
func (r *GormPurchaseAuditRepository) Append(ctx context.Context, entry *trade.PurchaseAuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByInvoice returns an invoice's audit trail, newest first
func (r *GormPurchaseAuditRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, filter shared.Filter) ([]trade.PurchaseAuditEntry, error) {
	var entries []trade.PurchaseAuditEntry
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at DESC, id DESC")

	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindLatestByAction returns the single most recent entry with the given
// action for an invoice. Ties on created_at are broken by ID so the result
// is deterministic.
func (r *GormPurchaseAuditRepository) FindLatestByAction(ctx context.Context, tenantID, invoiceID uuid.UUID, action trade.AuditAction) (*trade.PurchaseAuditEntry, error) {
	var entry trade.PurchaseAuditEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ? AND action = ?", tenantID, invoiceID, action).
		Order("created_at DESC, id DESC").
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CountByInvoice counts an invoice's audit entries
func (r *GormPurchaseAuditRepository) CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseAuditEntry{}).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPurchaseAuditRepository implements PurchaseAuditRepository
var _ trade.PurchaseAuditRepository = (*GormPurchaseAuditRepository)(nil)
