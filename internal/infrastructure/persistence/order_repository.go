package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderNumberCounter tracks the per-tenant, per-day order number sequence.
// The row is locked while a number is allocated so concurrent creations
// never hand out the same number.
type orderNumberCounter struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day      string    `gorm:"type:varchar(8);primaryKey"`
	Counter  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (orderNumberCounter) TableName() string {
	return "order_number_counters"
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForTenant finds an order by ID for a specific tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by order number for a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant finds all orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Order{}).
			Preload("Lines").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders with a given status code for a tenant
func (r *GormOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Order{}).
			Preload("Lines").
			Where("tenant_id = ? AND status_code = ?", tenantID, code),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// SaveWithLock saves with optimistic locking (version check). Lines are
// reconciled against the persisted set: removed lines are deleted, the
// rest are upserted.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&trade.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"customer_name":    order.CustomerName,
				"customer_phone":   order.CustomerPhone,
				"shipping_address": order.ShippingAddress,
				"shipping_city":    order.ShippingCity,
				"notes":            order.Notes,
				"status_code":      order.StatusCode,
				"subtotal":         order.Subtotal,
				"shipping_cost":    order.ShippingCost,
				"discount":         order.Discount,
				"total":            order.Total,
				"profit":           order.Profit,
				"shipped_at":       order.ShippedAt,
				"delivered_at":     order.DeliveredAt,
				"version":          order.Version,
				"updated_at":       order.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Order was modified by another transaction")
		}

		return reconcileOrderLines(tx, order)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain
// events to the outbox in the same transaction
func (r *GormOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *trade.Order, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormOrderRepository{db: tx, outboxSaver: r.outboxSaver}
		if err := scoped.SaveWithLock(ctx, order); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			return r.outboxSaver.SaveEvents(ctx, tx, events...)
		}
		return nil
	})
}

func reconcileOrderLines(tx *gorm.DB, order *trade.Order) error {
	currentIDs := make([]uuid.UUID, len(order.Lines))
	for i, line := range order.Lines {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentIDs).
			Delete(&trade.OrderLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&trade.OrderLine{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		if err := tx.Save(&order.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant hard-deletes an order and its lines for a tenant
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.OrderLine{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Order{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts orders for a tenant with optional filters
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.Order{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders with a given status code for a tenant
func (r *GormOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Where("tenant_id = ? AND status_code = ?", tenantID, code).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number exists for a tenant
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextOrderNumber allocates the next tenant-scoped order number in the
// format ORD-YYYYMMDD-NNNN. The counter row for (tenant, day) is created
// on first use and incremented under a row lock.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	day := time.Now().UTC().Format("20060102")

	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&orderNumberCounter{TenantID: tenantID, Day: day, Counter: 0}).Error; err != nil {
			return err
		}

		var counter orderNumberCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND day = ?", tenantID, day).
			First(&counter).Error; err != nil {
			return err
		}

		next = counter.Counter + 1
		return tx.Model(&orderNumberCounter{}).
			Where("tenant_id = ? AND day = ?", tenantID, day).
			Update("counter", next).Error
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%04d", day, next), nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status_code":
			query = query.Where("status_code = ?", value)
		case "customer_name":
			query = query.Where("customer_name ILIKE ?", "%"+fmt.Sprint(value)+"%")
		case "shipping_city":
			query = query.Where("shipping_city = ?", value)
		case "created_after":
			query = query.Where("created_at >= ?", value)
		case "created_before":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
