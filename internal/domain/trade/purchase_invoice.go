package trade

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseStatus is the approval state of a purchase invoice. Every
// ordered pair of distinct states is a legal transition; there is no
// terminal lock-out. What acceptance locks is the line set, not the
// status itself.
type PurchaseStatus string

const (
	PurchaseStatusPending  PurchaseStatus = "pending"
	PurchaseStatusAccepted PurchaseStatus = "accepted"
	PurchaseStatusRejected PurchaseStatus = "rejected"
)

// AllPurchaseStatuses returns every valid purchase status
func AllPurchaseStatuses() []PurchaseStatus {
	return []PurchaseStatus{PurchaseStatusPending, PurchaseStatusAccepted, PurchaseStatusRejected}
}

// IsValid checks if the status is a known PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusAccepted, PurchaseStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s PurchaseStatus) String() string {
	return string(s)
}

// Scan implements the sql.Scanner interface
func (s *PurchaseStatus) Scan(value any) error {
	if value == nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("trade: cannot scan type %T into PurchaseStatus", value)
		}
	}
	*s = PurchaseStatus(strings.ToLower(str))
	if !s.IsValid() {
		return fmt.Errorf("trade: invalid purchase status: %s", str)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s PurchaseStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// PurchaseLine is a single receipt line on a purchase invoice
type PurchaseLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(100);not null"`
	VariantName string          `gorm:"type:varchar(255);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}

// NewPurchaseLine creates a new purchase line
func NewPurchaseLine(invoiceID, variantID uuid.UUID, sku, variantName string, quantity int64, unitCost decimal.Decimal) (*PurchaseLine, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseLine{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		VariantID:   variantID,
		SKU:         sku,
		VariantName: variantName,
		Quantity:    quantity,
		UnitCost:    unitCost,
		LineTotal:   unitCost.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// VariantReceipt is the per-variant aggregation of an invoice's lines.
// Lines naming the same variant are summed before any cost arithmetic so
// a SKU appearing on multiple lines is never double-counted.
type VariantReceipt struct {
	VariantID uuid.UUID
	SKU       string
	Quantity  int64
	CostTotal decimal.Decimal
}

// IncomingAvgCost returns the quantity-weighted average cost of the
// aggregated lines for this variant
func (r VariantReceipt) IncomingAvgCost() decimal.Decimal {
	if r.Quantity == 0 {
		return decimal.Zero
	}
	return r.CostTotal.Div(decimal.NewFromInt(r.Quantity))
}

// PurchaseInvoice is the aggregate for supplier receipts. Accepting it
// injects stock and recomputes weighted-average costs; moving it away
// from accepted reverses that injection exactly, guided by the audit
// trail.
type PurchaseInvoice struct {
	shared.TenantAggregateRoot
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptNumber   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_purchase_tenant_receipt,priority:2"`
	Lines           []PurchaseLine  `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
	Status          PurchaseStatus  `gorm:"type:varchar(16);not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

// NewPurchaseInvoice creates a pending purchase invoice
func NewPurchaseInvoice(tenantID, supplierID uuid.UUID, receiptNumber string, paidAmount decimal.Decimal) (*PurchaseInvoice, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if len(receiptNumber) > 100 {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot exceed 100 characters")
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}

	invoice := &PurchaseInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		ReceiptNumber:       receiptNumber,
		Lines:               make([]PurchaseLine, 0),
		Status:              PurchaseStatusPending,
		Subtotal:            decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          paidAmount,
		RemainingAmount:     decimal.Zero,
	}

	invoice.AddDomainEvent(NewPurchaseInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// IsAccepted reports whether the invoice's stock effect is currently applied
func (i *PurchaseInvoice) IsAccepted() bool {
	return i.Status == PurchaseStatusAccepted
}

// CanModifyLines reports whether the line set may still change
func (i *PurchaseInvoice) CanModifyLines() bool {
	return !i.IsAccepted()
}

// CanDelete reports whether the invoice may be deleted
func (i *PurchaseInvoice) CanDelete() bool {
	return !i.IsAccepted()
}

// AddLine appends a receipt line. Forbidden once the invoice is accepted.
func (i *PurchaseInvoice) AddLine(variantID uuid.UUID, sku, variantName string, quantity int64, unitCost decimal.Decimal) (*PurchaseLine, error) {
	if !i.CanModifyLines() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Invoice %s is accepted; line items are locked", i.ReceiptNumber))
	}

	line, err := NewPurchaseLine(i.ID, variantID, sku, variantName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	i.Lines = append(i.Lines, *line)
	i.recalculateTotals()
	i.UpdatedAt = time.Now()

	return line, nil
}

// ReplaceLines swaps the entire line set, the only edit mode supported
// while the invoice is pending or rejected
func (i *PurchaseInvoice) ReplaceLines(lines []PurchaseLine) error {
	if !i.CanModifyLines() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Invoice %s is accepted; line items are locked", i.ReceiptNumber))
	}

	for idx := range lines {
		lines[idx].InvoiceID = i.ID
	}
	i.Lines = lines
	i.recalculateTotals()
	i.UpdatedAt = time.Now()

	return nil
}

// SetPaidAmount updates the paid amount and recomputes the remainder.
// Allowed in any status; payments are not an item edit.
func (i *PurchaseInvoice) SetPaidAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}
	i.PaidAmount = amount
	i.RemainingAmount = i.Total.Sub(i.PaidAmount)
	i.UpdatedAt = time.Now()
	return nil
}

// SetNotes updates the free-text notes
func (i *PurchaseInvoice) SetNotes(notes string) {
	i.Notes = notes
	i.UpdatedAt = time.Now()
}

// TransitionTo moves the invoice to another approval status. Any distinct
// target is legal; the stock and cost side effects of entering or leaving
// accepted are the application service's concern.
func (i *PurchaseInvoice) TransitionTo(target PurchaseStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown purchase status: %s", target))
	}
	if target == i.Status {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Invoice %s is already %s", i.ReceiptNumber, target))
	}

	from := i.Status
	i.Status = target
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewPurchaseStatusChangedEvent(i, from, target))

	return nil
}

// AggregateByVariant folds the line set into one receipt per distinct
// variant, summing quantities and cost totals. The result is ordered by
// variant ID so lock acquisition across concurrent transactions is
// deterministic.
func (i *PurchaseInvoice) AggregateByVariant() []VariantReceipt {
	byVariant := make(map[uuid.UUID]*VariantReceipt)
	for _, line := range i.Lines {
		r, ok := byVariant[line.VariantID]
		if !ok {
			r = &VariantReceipt{VariantID: line.VariantID, SKU: line.SKU, CostTotal: decimal.Zero}
			byVariant[line.VariantID] = r
		}
		r.Quantity += line.Quantity
		r.CostTotal = r.CostTotal.Add(line.UnitCost.Mul(decimal.NewFromInt(line.Quantity)))
	}

	receipts := make([]VariantReceipt, 0, len(byVariant))
	for _, r := range byVariant {
		receipts = append(receipts, *r)
	}
	sort.Slice(receipts, func(a, b int) bool {
		return strings.Compare(receipts[a].VariantID.String(), receipts[b].VariantID.String()) < 0
	})
	return receipts
}

// LineCount returns the number of lines on the invoice
func (i *PurchaseInvoice) LineCount() int {
	return len(i.Lines)
}

// recalculateTotals recomputes the invoice totals from its lines
func (i *PurchaseInvoice) recalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	i.Subtotal = subtotal
	i.Total = subtotal
	i.RemainingAmount = i.Total.Sub(i.PaidAmount)
}
