package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID for a specific tenant,
	// preloading its lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders with a given status code for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, code OrderStatusCode, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its lines
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// SaveWithLockAndEvents saves with optimistic locking and persists the
	// pending domain events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, order *Order, events []shared.DomainEvent) error

	// DeleteForTenant hard-deletes an order and its lines for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts orders with a given status code for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, code OrderStatusCode) (int64, error)

	// ExistsByOrderNumber checks if an order number exists for a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// NextOrderNumber allocates the next tenant-scoped, date-prefixed
	// sequential order number. The per-day counter row is incremented
	// under a row lock so concurrent creations never collide.
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// OrderHistoryRepository defines the interface for order status history
// persistence. History rows are append-only while the order lives and are
// removed only when their order is hard-deleted.
type OrderHistoryRepository interface {
	// Append writes a history entry
	Append(ctx context.Context, entry *OrderHistoryEntry) error

	// FindByOrder returns an order's history, oldest first
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]OrderHistoryEntry, error)

	// DeleteByOrder removes an order's history rows with the order
	DeleteByOrder(ctx context.Context, tenantID, orderID uuid.UUID) error
}

// StatusRepository defines the interface for the order status catalog
type StatusRepository interface {
	// FindByCode finds a tenant's status record by code
	FindByCode(ctx context.Context, tenantID uuid.UUID, code OrderStatusCode) (*Status, error)

	// FindDefault finds the tenant's default status for new orders
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Status, error)

	// FindAllForTenant returns the tenant's full status catalog in
	// lifecycle order
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Status, error)

	// Save creates or updates a status record
	Save(ctx context.Context, status *Status) error

	// SeedDefaults idempotently inserts the canonical status set for a
	// tenant; rows that already exist are left untouched
	SeedDefaults(ctx context.Context, tenantID uuid.UUID) error
}

// PurchaseInvoiceRepository defines the interface for purchase invoice
// persistence
type PurchaseInvoiceRepository interface {
	// FindByID finds a purchase invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)

	// FindByIDForTenant finds a purchase invoice by ID for a specific
	// tenant, preloading its lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseInvoice, error)

	// FindByReceiptNumber finds an invoice by receipt number for a tenant
	FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*PurchaseInvoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseInvoice, error)

	// FindBySupplier finds invoices for a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseInvoice, error)

	// FindByStatus finds invoices by approval status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseStatus, filter shared.Filter) ([]PurchaseInvoice, error)

	// Save creates or updates an invoice together with its lines
	Save(ctx context.Context, invoice *PurchaseInvoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *PurchaseInvoice) error

	// SaveWithLockAndEvents saves with optimistic locking and persists the
	// pending domain events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, invoice *PurchaseInvoice, events []shared.DomainEvent) error

	// ReplaceLines swaps the invoice's persisted line set wholesale
	ReplaceLines(ctx context.Context, invoice *PurchaseInvoice) error

	// DeleteForTenant hard-deletes an invoice and its lines for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices by approval status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseStatus) (int64, error)

	// CountBySupplier counts invoices for a supplier
	CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)

	// ExistsByReceiptNumber checks if a receipt number exists for a tenant
	ExistsByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (bool, error)
}

// PurchaseAuditRepository defines the interface for the append-only
// purchase audit trail. There is deliberately no update or delete.
type PurchaseAuditRepository interface {
	// Append writes an audit entry
	Append(ctx context.Context, entry *PurchaseAuditEntry) error

	// FindByInvoice returns an invoice's audit trail, newest first
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, filter shared.Filter) ([]PurchaseAuditEntry, error)

	// FindLatestByAction returns the single most recent entry with the
	// given action for an invoice, ordered by (created_at DESC, id DESC),
	// or shared.ErrNotFound when no such entry exists
	FindLatestByAction(ctx context.Context, tenantID, invoiceID uuid.UUID, action AuditAction) (*PurchaseAuditEntry, error)

	// CountByInvoice counts an invoice's audit entries
	CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error)
}
