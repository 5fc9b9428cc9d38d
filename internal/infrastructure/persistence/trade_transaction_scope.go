package persistence

import (
	"context"

	apptrade "github.com/oms/backend/internal/application/trade"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/partner"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeTransactionScope implements the trade TransactionScope using
// GORM transactions. All repositories handed to the workflow share one
// transaction, and SaveEvents writes to the outbox inside it.
type GormTradeTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope.
// The outbox saver may be nil, in which case SaveEvents is a no-op.
func NewGormTradeTransactionScope(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db, outboxSaver: outboxSaver}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTradeRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormTradeRepositories provides access to all trade-side repositories
// within a transaction.
type gormTradeRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTradeRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// HistoryRepo returns the order history repository scoped to the current transaction.
func (r *gormTradeRepositories) HistoryRepo() trade.OrderHistoryRepository {
	return NewGormOrderHistoryRepository(r.tx)
}

// StatusRepo returns the status catalog repository scoped to the current transaction.
func (r *gormTradeRepositories) StatusRepo() trade.StatusRepository {
	return NewGormStatusRepository(r.tx)
}

// VariantRepo returns the variant ledger repository scoped to the current transaction.
func (r *gormTradeRepositories) VariantRepo() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// InvoiceRepo returns the purchase invoice repository scoped to the current transaction.
func (r *gormTradeRepositories) InvoiceRepo() trade.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// AuditRepo returns the purchase audit trail repository scoped to the current transaction.
func (r *gormTradeRepositories) AuditRepo() trade.PurchaseAuditRepository {
	return NewGormPurchaseAuditRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction.
func (r *gormTradeRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// SaveEvents persists domain events to the outbox within the current transaction.
func (r *gormTradeRepositories) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if r.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	return r.outboxSaver.SaveEvents(ctx, r.tx, events...)
}

// Ensure GormTradeTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTradeTransactionScope)(nil)

// Ensure gormTradeRepositories implements TransactionalRepositories
var _ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
