package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPurchaseInvoiceRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a purchase invoice by ID
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForTenant finds a purchase invoice by ID for a specific tenant
func (r *GormPurchaseInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByReceiptNumber finds an invoice by receipt number for a tenant
func (r *GormPurchaseInvoiceRepository) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*trade.PurchaseInvoice, error) {
	var invoice trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND receipt_number = ?", tenantID, receiptNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds all invoices for a tenant with filtering
func (r *GormPurchaseInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var invoices []trade.PurchaseInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).
			Preload("Lines").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindBySupplier finds invoices for a supplier
func (r *GormPurchaseInvoiceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var invoices []trade.PurchaseInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).
			Preload("Lines").
			Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByStatus finds invoices by approval status for a tenant
func (r *GormPurchaseInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status trade.PurchaseStatus, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var invoices []trade.PurchaseInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).
			Preload("Lines").
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its lines
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	result := r.db.WithContext(ctx).
		Model(&trade.PurchaseInvoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"supplier_id":      invoice.SupplierID,
			"receipt_number":   invoice.ReceiptNumber,
			"status":           invoice.Status,
			"subtotal":         invoice.Subtotal,
			"total":            invoice.Total,
			"paid_amount":      invoice.PaidAmount,
			"remaining_amount": invoice.RemainingAmount,
			"notes":            invoice.Notes,
			"version":          invoice.Version,
			"updated_at":       invoice.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Invoice was modified by another transaction")
	}
	return nil
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain
// events to the outbox in the same transaction
func (r *GormPurchaseInvoiceRepository) SaveWithLockAndEvents(ctx context.Context, invoice *trade.PurchaseInvoice, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormPurchaseInvoiceRepository{db: tx, outboxSaver: r.outboxSaver}
		if err := scoped.SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			return r.outboxSaver.SaveEvents(ctx, tx, events...)
		}
		return nil
	})
}

// ReplaceLines swaps the invoice's persisted line set wholesale
func (r *GormPurchaseInvoiceRepository) ReplaceLines(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&trade.PurchaseLine{}).Error; err != nil {
			return err
		}

		for i := range invoice.Lines {
			invoice.Lines[i].InvoiceID = invoice.ID
			if err := tx.Create(&invoice.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant hard-deletes an invoice and its lines for a tenant
func (r *GormPurchaseInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&trade.PurchaseLine{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.PurchaseInvoice{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts invoices for a tenant with optional filters
func (r *GormPurchaseInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts invoices by approval status for a tenant
func (r *GormPurchaseInvoiceRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status trade.PurchaseStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseInvoice{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts invoices for a supplier
func (r *GormPurchaseInvoiceRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseInvoice{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReceiptNumber checks if a receipt number exists for a tenant
func (r *GormPurchaseInvoiceRepository) ExistsByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseInvoice{}).
		Where("tenant_id = ? AND receipt_number = ?", tenantID, receiptNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseInvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "unpaid":
			if value == true {
				query = query.Where("remaining_amount > 0")
			}
		case "created_after":
			query = query.Where("created_at >= ?", value)
		case "created_before":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository
var _ trade.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
