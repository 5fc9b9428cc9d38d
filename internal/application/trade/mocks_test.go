package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/partner"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, tenantID, code, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *trade.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode) (int64, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockOrderHistoryRepository is a mock implementation of OrderHistoryRepository
type MockOrderHistoryRepository struct {
	mock.Mock
}

func (m *MockOrderHistoryRepository) Append(ctx context.Context, entry *trade.OrderHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOrderHistoryRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.OrderHistoryEntry, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.OrderHistoryEntry), args.Error(1)
}

func (m *MockOrderHistoryRepository) DeleteByOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	args := m.Called(ctx, tenantID, orderID)
	return args.Error(0)
}

// MockStatusRepository is a mock implementation of StatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode) (*trade.Status, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Status), args.Error(1)
}

func (m *MockStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*trade.Status, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Status), args.Error(1)
}

func (m *MockStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]trade.Status, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Status), args.Error(1)
}

func (m *MockStatusRepository) Save(ctx context.Context, status *trade.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStatusRepository) SeedDefaults(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDForTenantLocked(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDsForTenantLocked(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Variant, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Variant, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) SaveWithLock(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) SaveWithLockAndEvents(ctx context.Context, variant *catalog.Variant, events []shared.DomainEvent) error {
	args := m.Called(ctx, variant, events)
	return args.Error(0)
}

func (m *MockVariantRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockVariantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) CountBelowThreshold(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

// MockPurchaseInvoiceRepository is a mock implementation of PurchaseInvoiceRepository
type MockPurchaseInvoiceRepository struct {
	mock.Mock
}

func (m *MockPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*trade.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status trade.PurchaseStatus, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) Save(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) SaveWithLockAndEvents(ctx context.Context, invoice *trade.PurchaseInvoice, events []shared.DomainEvent) error {
	args := m.Called(ctx, invoice, events)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) ReplaceLines(ctx context.Context, invoice *trade.PurchaseInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status trade.PurchaseStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) ExistsByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, receiptNumber)
	return args.Bool(0), args.Error(1)
}

// MockPurchaseAuditRepository is a mock implementation of PurchaseAuditRepository
type MockPurchaseAuditRepository struct {
	mock.Mock
}

func (m *MockPurchaseAuditRepository) Append(ctx context.Context, entry *trade.PurchaseAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPurchaseAuditRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, filter shared.Filter) ([]trade.PurchaseAuditEntry, error) {
	args := m.Called(ctx, tenantID, invoiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseAuditEntry), args.Error(1)
}

func (m *MockPurchaseAuditRepository) FindLatestByAction(ctx context.Context, tenantID, invoiceID uuid.UUID, action trade.AuditAction) (*trade.PurchaseAuditEntry, error) {
	args := m.Called(ctx, tenantID, invoiceID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseAuditEntry), args.Error(1)
}

func (m *MockPurchaseAuditRepository) CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

// testRepos bundles one mock of every repository together with a
// NoOpTransactionScope wired over them
type testRepos struct {
	orderRepo    *MockOrderRepository
	historyRepo  *MockOrderHistoryRepository
	statusRepo   *MockStatusRepository
	variantRepo  *MockVariantRepository
	invoiceRepo  *MockPurchaseInvoiceRepository
	auditRepo    *MockPurchaseAuditRepository
	supplierRepo *MockSupplierRepository
	scope        *NoOpTransactionScope
}

func newTestRepos() *testRepos {
	r := &testRepos{
		orderRepo:    new(MockOrderRepository),
		historyRepo:  new(MockOrderHistoryRepository),
		statusRepo:   new(MockStatusRepository),
		variantRepo:  new(MockVariantRepository),
		invoiceRepo:  new(MockPurchaseInvoiceRepository),
		auditRepo:    new(MockPurchaseAuditRepository),
		supplierRepo: new(MockSupplierRepository),
	}
	r.scope = NewNoOpTransactionScope(
		r.orderRepo, r.historyRepo, r.statusRepo,
		r.variantRepo, r.invoiceRepo, r.auditRepo, r.supplierRepo,
	)
	return r
}
