package trade

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AuditAction names the kind of mutation a purchase audit entry records
type AuditAction string

const (
	AuditActionCreated           AuditAction = "created"
	AuditActionUpdated           AuditAction = "updated"
	AuditActionStatusChanged     AuditAction = "status-changed"
	AuditActionStockApplied      AuditAction = "stock-applied"
	AuditActionStockRemoved      AuditAction = "stock-removed"
	AuditActionPriceUpdated      AuditAction = "price-updated"
	AuditActionPriceRolledBack   AuditAction = "price-rolled-back"
	AuditActionPaidAmountUpdated AuditAction = "paid-amount-updated"
	AuditActionDeleted           AuditAction = "deleted"
)

// IsValid checks if the action is a known AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreated, AuditActionUpdated, AuditActionStatusChanged,
		AuditActionStockApplied, AuditActionStockRemoved, AuditActionPriceUpdated,
		AuditActionPriceRolledBack, AuditActionPaidAmountUpdated, AuditActionDeleted:
		return true
	}
	return false
}

// String returns the string representation of the action
func (a AuditAction) String() string {
	return string(a)
}

// AuditChange is one per-variant before/after fact inside an audit entry's
// change set. Only the fields relevant to the entry's action are set; the
// price rollback reader depends on VariantID and OldPrice of price-updated
// entries and ignores everything else.
type AuditChange struct {
	VariantID       uuid.UUID        `json:"variant_id"`
	SKU             string           `json:"sku,omitempty"`
	OldStock        *int64           `json:"old_stock,omitempty"`
	NewStock        *int64           `json:"new_stock,omitempty"`
	AddedQty        *int64           `json:"added_qty,omitempty"`
	OldPrice        *decimal.Decimal `json:"old_price,omitempty"` // nil means the variant had no cost yet
	NewPrice        *decimal.Decimal `json:"new_price,omitempty"`
	IncomingAvgCost *decimal.Decimal `json:"incoming_avg_cost,omitempty"`
	OldPaidAmount   *decimal.Decimal `json:"old_paid_amount,omitempty"`
	NewPaidAmount   *decimal.Decimal `json:"new_paid_amount,omitempty"`
	OldStatus       string           `json:"old_status,omitempty"`
	NewStatus       string           `json:"new_status,omitempty"`
}

// AuditChangeList is the JSONB-persisted change set of an audit entry
type AuditChangeList []AuditChange

// Scan implements the sql.Scanner interface
func (l *AuditChangeList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("trade: cannot scan type %T into AuditChangeList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface
func (l AuditChangeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// PurchaseAuditEntry is one append-only record of a mutation performed by
// the purchase approval workflow. Entries are written inside the workflow's
// transaction, never updated or deleted, and survive deletion of their
// invoice: InvoiceID is a plain value reference, not a foreign key.
//
// The most-recent price-updated entry of an invoice is the sole source
// consulted to reverse that invoice's cost effect; the ordering key is
// (created_at DESC, id DESC) within (tenant_id, invoice_id, action).
type PurchaseAuditEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_audit_lookup,priority:1"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_audit_lookup,priority:2"`
	Action      AuditAction     `gorm:"type:varchar(32);not null;index:idx_purchase_audit_lookup,priority:3"`
	Changes     AuditChangeList `gorm:"type:jsonb"`
	Description string          `gorm:"type:text"`
	Actor       string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_purchase_audit_lookup,priority:4,sort:desc"`
}

// TableName returns the table name for GORM
func (PurchaseAuditEntry) TableName() string {
	return "purchase_audit_entries"
}

// NewPurchaseAuditEntry creates an audit entry for an invoice mutation
func NewPurchaseAuditEntry(tenantID, invoiceID uuid.UUID, action AuditAction, changes AuditChangeList, description, actor string) (*PurchaseAuditEntry, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown audit action: %s", action))
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Audit entry requires an invoice reference")
	}

	return &PurchaseAuditEntry{
		ID:          uuid.New(),
		TenantID:    tenantID,
		InvoiceID:   invoiceID,
		Action:      action,
		Changes:     changes,
		Description: description,
		Actor:       actor,
		CreatedAt:   time.Now(),
	}, nil
}

// ChangeForVariant returns the change record naming the variant, or nil
func (e *PurchaseAuditEntry) ChangeForVariant(variantID uuid.UUID) *AuditChange {
	for idx := range e.Changes {
		if e.Changes[idx].VariantID == variantID {
			return &e.Changes[idx]
		}
	}
	return nil
}
