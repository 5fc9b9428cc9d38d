package trade

import (
	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the purchase approval workflow
const (
	EventTypePurchaseInvoiceCreated = "PurchaseInvoiceCreated"
	EventTypePurchaseStatusChanged  = "PurchaseStatusChanged"
	EventTypePurchaseAccepted       = "PurchaseAccepted"
	EventTypePurchaseUnaccepted     = "PurchaseUnaccepted"
)

// PurchaseLineInfo carries line facts on purchase invoice events
type PurchaseLineInfo struct {
	LineID    uuid.UUID       `json:"line_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func purchaseLineInfos(invoice *PurchaseInvoice) []PurchaseLineInfo {
	infos := make([]PurchaseLineInfo, len(invoice.Lines))
	for i, line := range invoice.Lines {
		infos[i] = PurchaseLineInfo{
			LineID:    line.ID,
			VariantID: line.VariantID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: line.LineTotal,
		}
	}
	return infos
}

// PurchaseInvoiceCreatedEvent is raised when a new purchase invoice is created
type PurchaseInvoiceCreatedEvent struct {
	shared.EventBase
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	ReceiptNumber string          `json:"receipt_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewPurchaseInvoiceCreatedEvent creates a new PurchaseInvoiceCreatedEvent
func NewPurchaseInvoiceCreatedEvent(invoice *PurchaseInvoice) *PurchaseInvoiceCreatedEvent {
	return &PurchaseInvoiceCreatedEvent{
		EventBase:     shared.NewEventBase(EventTypePurchaseInvoiceCreated, AggregateTypePurchaseInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:     invoice.ID,
		ReceiptNumber: invoice.ReceiptNumber,
		SupplierID:    invoice.SupplierID,
		Total:         invoice.Total,
	}
}

// EventType returns the event type name
func (e *PurchaseInvoiceCreatedEvent) EventType() string {
	return EventTypePurchaseInvoiceCreated
}

// PurchaseStatusChangedEvent is raised on every approval status transition
type PurchaseStatusChangedEvent struct {
	shared.EventBase
	InvoiceID     uuid.UUID      `json:"invoice_id"`
	ReceiptNumber string         `json:"receipt_number"`
	FromStatus    PurchaseStatus `json:"from_status"`
	ToStatus      PurchaseStatus `json:"to_status"`
}

// NewPurchaseStatusChangedEvent creates a new PurchaseStatusChangedEvent
func NewPurchaseStatusChangedEvent(invoice *PurchaseInvoice, from, to PurchaseStatus) *PurchaseStatusChangedEvent {
	return &PurchaseStatusChangedEvent{
		EventBase:     shared.NewEventBase(EventTypePurchaseStatusChanged, AggregateTypePurchaseInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:     invoice.ID,
		ReceiptNumber: invoice.ReceiptNumber,
		FromStatus:    from,
		ToStatus:      to,
	}
}

// EventType returns the event type name
func (e *PurchaseStatusChangedEvent) EventType() string {
	return EventTypePurchaseStatusChanged
}

// PurchaseAcceptedEvent is raised when an invoice's stock effect has been
// applied to the ledger
type PurchaseAcceptedEvent struct {
	shared.EventBase
	InvoiceID     uuid.UUID          `json:"invoice_id"`
	ReceiptNumber string             `json:"receipt_number"`
	SupplierID    uuid.UUID          `json:"supplier_id"`
	Lines         []PurchaseLineInfo `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
}

// NewPurchaseAcceptedEvent creates a new PurchaseAcceptedEvent
func NewPurchaseAcceptedEvent(invoice *PurchaseInvoice) *PurchaseAcceptedEvent {
	return &PurchaseAcceptedEvent{
		EventBase:     shared.NewEventBase(EventTypePurchaseAccepted, AggregateTypePurchaseInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:     invoice.ID,
		ReceiptNumber: invoice.ReceiptNumber,
		SupplierID:    invoice.SupplierID,
		Lines:         purchaseLineInfos(invoice),
		Total:         invoice.Total,
	}
}

// EventType returns the event type name
func (e *PurchaseAcceptedEvent) EventType() string {
	return EventTypePurchaseAccepted
}

// PurchaseUnacceptedEvent is raised when an invoice's stock effect has been
// reversed out of the ledger
type PurchaseUnacceptedEvent struct {
	shared.EventBase
	InvoiceID     uuid.UUID          `json:"invoice_id"`
	ReceiptNumber string             `json:"receipt_number"`
	SupplierID    uuid.UUID          `json:"supplier_id"`
	Lines         []PurchaseLineInfo `json:"lines"`
	ToStatus      PurchaseStatus     `json:"to_status"`
}

// NewPurchaseUnacceptedEvent creates a new PurchaseUnacceptedEvent
func NewPurchaseUnacceptedEvent(invoice *PurchaseInvoice, to PurchaseStatus) *PurchaseUnacceptedEvent {
	return &PurchaseUnacceptedEvent{
		EventBase:     shared.NewEventBase(EventTypePurchaseUnaccepted, AggregateTypePurchaseInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:     invoice.ID,
		ReceiptNumber: invoice.ReceiptNumber,
		SupplierID:    invoice.SupplierID,
		Lines:         purchaseLineInfos(invoice),
		ToStatus:      to,
	}
}

// EventType returns the event type name
func (e *PurchaseUnacceptedEvent) EventType() string {
	return EventTypePurchaseUnaccepted
}
