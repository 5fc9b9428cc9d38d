package trade

import (
	"context"

	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/partner"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// stock-mutating workflow needs. Every order creation, order status
// change and purchase status change runs inside exactly one Execute call:
// the variant ledger, the aggregate and its audit rows commit or roll
// back together, so a failure is never observable as partial stock.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all trade-side
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
//
// Aggregate boundary notes:
//   - VariantRepo is the stock ledger's persistence; its locked finders
//     are the only legal way to load a variant a workflow will mutate.
//   - AuditRepo is append-only and is both written and read back (price
//     rollback) inside the same workflow transactions.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// HistoryRepo returns the order history repository scoped to the current transaction
	HistoryRepo() trade.OrderHistoryRepository
	// StatusRepo returns the status catalog repository scoped to the current transaction
	StatusRepo() trade.StatusRepository
	// VariantRepo returns the variant ledger repository scoped to the current transaction
	VariantRepo() catalog.VariantRepository
	// InvoiceRepo returns the purchase invoice repository scoped to the current transaction
	InvoiceRepo() trade.PurchaseInvoiceRepository
	// AuditRepo returns the purchase audit trail repository scoped to the current transaction
	AuditRepo() trade.PurchaseAuditRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() partner.SupplierRepository
	// SaveEvents persists domain events to the outbox within the current transaction
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	orderRepo    trade.OrderRepository
	historyRepo  trade.OrderHistoryRepository
	statusRepo   trade.StatusRepository
	variantRepo  catalog.VariantRepository
	invoiceRepo  trade.PurchaseInvoiceRepository
	auditRepo    trade.PurchaseAuditRepository
	supplierRepo partner.SupplierRepository

	// SavedEvents collects everything handed to SaveEvents so tests can
	// assert on outbox contents
	SavedEvents []shared.DomainEvent
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	historyRepo trade.OrderHistoryRepository,
	statusRepo trade.StatusRepository,
	variantRepo catalog.VariantRepository,
	invoiceRepo trade.PurchaseInvoiceRepository,
	auditRepo trade.PurchaseAuditRepository,
	supplierRepo partner.SupplierRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		historyRepo:  historyRepo,
		statusRepo:   statusRepo,
		variantRepo:  variantRepo,
		invoiceRepo:  invoiceRepo,
		auditRepo:    auditRepo,
		supplierRepo: supplierRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository { return s.orderRepo }

// HistoryRepo returns the order history repository
func (s *NoOpTransactionScope) HistoryRepo() trade.OrderHistoryRepository { return s.historyRepo }

// StatusRepo returns the status catalog repository
func (s *NoOpTransactionScope) StatusRepo() trade.StatusRepository { return s.statusRepo }

// VariantRepo returns the variant ledger repository
func (s *NoOpTransactionScope) VariantRepo() catalog.VariantRepository { return s.variantRepo }

// InvoiceRepo returns the purchase invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() trade.PurchaseInvoiceRepository { return s.invoiceRepo }

// AuditRepo returns the purchase audit trail repository
func (s *NoOpTransactionScope) AuditRepo() trade.PurchaseAuditRepository { return s.auditRepo }

// SupplierRepo returns the supplier repository
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.supplierRepo }

// SaveEvents records the events instead of writing an outbox
func (s *NoOpTransactionScope) SaveEvents(_ context.Context, events ...shared.DomainEvent) error {
	s.SavedEvents = append(s.SavedEvents, events...)
	return nil
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
