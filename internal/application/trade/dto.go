package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateOrderLineInput is one requested reservation line
type CreateOrderLineInput struct {
	VariantID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateOrderRequest carries everything needed to create an order
type CreateOrderRequest struct {
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	ShippingCity    string
	Notes           string
	ShippingCost    decimal.Decimal
	Discount        decimal.Decimal
	Lines           []CreateOrderLineInput
	Actor           string
}

// ChangeOrderStatusRequest asks for one transition of the status graph
type ChangeOrderStatusRequest struct {
	StatusCode trade.OrderStatusCode
	Note       string
	Actor      string
}

// OrderLineResponse is the read model of one order line
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	SKU         string          `json:"sku"`
	VariantName string          `json:"variant_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse is the full read model of an order
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	ShippingAddress string                `json:"shipping_address,omitempty"`
	ShippingCity    string                `json:"shipping_city,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	StatusCode      trade.OrderStatusCode `json:"status_code"`
	Lines           []OrderLineResponse   `json:"lines"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Discount        decimal.Decimal       `json:"discount"`
	Total           decimal.Decimal       `json:"total"`
	Profit          decimal.Decimal       `json:"profit"`
	ShippedAt       *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// OrderListItemResponse is the compact list read model of an order
type OrderListItemResponse struct {
	ID           uuid.UUID             `json:"id"`
	OrderNumber  string                `json:"order_number"`
	CustomerName string                `json:"customer_name"`
	StatusCode   trade.OrderStatusCode `json:"status_code"`
	LineCount    int                   `json:"line_count"`
	Total        decimal.Decimal       `json:"total"`
	CreatedAt    time.Time             `json:"created_at"`
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	StatusCode *trade.OrderStatusCode
}

// OrderHistoryResponse is the read model of one status history entry
type OrderHistoryResponse struct {
	ID        uuid.UUID             `json:"id"`
	FromCode  trade.OrderStatusCode `json:"from_code"`
	ToCode    trade.OrderStatusCode `json:"to_code"`
	Actor     string                `json:"actor,omitempty"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// ToOrderResponse converts an order to its read model
func ToOrderResponse(order *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			ID:          line.ID,
			VariantID:   line.VariantID,
			SKU:         line.SKU,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			UnitCost:    line.UnitCost,
			LineTotal:   line.LineTotal,
		}
	}
	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		Notes:           order.Notes,
		StatusCode:      order.StatusCode,
		Lines:           lines,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Discount:        order.Discount,
		Total:           order.Total,
		Profit:          order.Profit,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// ToOrderListItemResponses converts orders to their list read models
func ToOrderListItemResponses(orders []trade.Order) []OrderListItemResponse {
	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = OrderListItemResponse{
			ID:           orders[i].ID,
			OrderNumber:  orders[i].OrderNumber,
			CustomerName: orders[i].CustomerName,
			StatusCode:   orders[i].StatusCode,
			LineCount:    orders[i].LineCount(),
			Total:        orders[i].Total,
			CreatedAt:    orders[i].CreatedAt,
		}
	}
	return items
}

// ToOrderHistoryResponses converts history entries to their read models
func ToOrderHistoryResponses(entries []trade.OrderHistoryEntry) []OrderHistoryResponse {
	items := make([]OrderHistoryResponse, len(entries))
	for i, e := range entries {
		items[i] = OrderHistoryResponse{
			ID:        e.ID,
			FromCode:  e.FromCode,
			ToCode:    e.ToCode,
			Actor:     e.Actor,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return items
}

// PurchaseLineInput is one requested receipt line
type PurchaseLineInput struct {
	VariantID uuid.UUID
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreatePurchaseInvoiceRequest carries everything needed to create a
// pending purchase invoice
type CreatePurchaseInvoiceRequest struct {
	SupplierID    uuid.UUID
	ReceiptNumber string
	PaidAmount    decimal.Decimal
	Notes         string
	Lines         []PurchaseLineInput
	Actor         string
}

// UpdatePurchaseInvoiceRequest replaces an invoice's line set and/or paid
// amount while it is not accepted. Nil fields are left unchanged.
type UpdatePurchaseInvoiceRequest struct {
	Lines      *[]PurchaseLineInput
	PaidAmount *decimal.Decimal
	Notes      *string
	Actor      string
}

// ChangePurchaseStatusRequest asks for one approval status transition
type ChangePurchaseStatusRequest struct {
	Status trade.PurchaseStatus
	Actor  string
}

// PurchaseLineResponse is the read model of one invoice line
type PurchaseLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	SKU         string          `json:"sku"`
	VariantName string          `json:"variant_name"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseInvoiceResponse is the full read model of a purchase invoice
type PurchaseInvoiceResponse struct {
	ID              uuid.UUID              `json:"id"`
	SupplierID      uuid.UUID              `json:"supplier_id"`
	ReceiptNumber   string                 `json:"receipt_number"`
	Status          trade.PurchaseStatus   `json:"status"`
	Lines           []PurchaseLineResponse `json:"lines"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Total           decimal.Decimal        `json:"total"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	RemainingAmount decimal.Decimal        `json:"remaining_amount"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// PurchaseInvoiceListFilter narrows invoice listings
type PurchaseInvoiceListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     *trade.PurchaseStatus
	SupplierID *uuid.UUID
}

// AcceptPreviewLine is the dry-run effect of acceptance on one variant
type AcceptPreviewLine struct {
	VariantID       uuid.UUID        `json:"variant_id"`
	SKU             string           `json:"sku"`
	AddedQty        int64            `json:"added_qty"`
	OldStock        int64            `json:"old_stock"`
	NewStock        int64            `json:"new_stock"`
	OldCost         *decimal.Decimal `json:"old_cost"` // null when the variant is uncosted
	IncomingAvgCost decimal.Decimal  `json:"incoming_avg_cost"`
	NewCost         decimal.Decimal  `json:"new_cost"`
}

// AcceptPreviewResponse is the dry-run effect of accepting an invoice
type AcceptPreviewResponse struct {
	InvoiceID     uuid.UUID           `json:"invoice_id"`
	ReceiptNumber string              `json:"receipt_number"`
	Lines         []AcceptPreviewLine `json:"lines"`
}

// AuditEntryResponse is the read model of one audit trail entry
type AuditEntryResponse struct {
	ID          uuid.UUID             `json:"id"`
	InvoiceID   uuid.UUID             `json:"invoice_id"`
	Action      trade.AuditAction     `json:"action"`
	Changes     trade.AuditChangeList `json:"changes"`
	Description string                `json:"description,omitempty"`
	Actor       string                `json:"actor,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToPurchaseInvoiceResponse converts an invoice to its read model
func ToPurchaseInvoiceResponse(invoice *trade.PurchaseInvoice) PurchaseInvoiceResponse {
	lines := make([]PurchaseLineResponse, len(invoice.Lines))
	for i, line := range invoice.Lines {
		lines[i] = PurchaseLineResponse{
			ID:          line.ID,
			VariantID:   line.VariantID,
			SKU:         line.SKU,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			LineTotal:   line.LineTotal,
		}
	}
	return PurchaseInvoiceResponse{
		ID:              invoice.ID,
		SupplierID:      invoice.SupplierID,
		ReceiptNumber:   invoice.ReceiptNumber,
		Status:          invoice.Status,
		Lines:           lines,
		Subtotal:        invoice.Subtotal,
		Total:           invoice.Total,
		PaidAmount:      invoice.PaidAmount,
		RemainingAmount: invoice.RemainingAmount,
		Notes:           invoice.Notes,
		CreatedAt:       invoice.CreatedAt,
		UpdatedAt:       invoice.UpdatedAt,
	}
}

// ToPurchaseInvoiceResponses converts invoices to their read models
func ToPurchaseInvoiceResponses(invoices []trade.PurchaseInvoice) []PurchaseInvoiceResponse {
	items := make([]PurchaseInvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToPurchaseInvoiceResponse(&invoices[i])
	}
	return items
}

// ToAuditEntryResponses converts audit entries to their read models
func ToAuditEntryResponses(entries []trade.PurchaseAuditEntry) []AuditEntryResponse {
	items := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = AuditEntryResponse{
			ID:          e.ID,
			InvoiceID:   e.InvoiceID,
			Action:      e.Action,
			Changes:     e.Changes,
			Description: e.Description,
			Actor:       e.Actor,
			CreatedAt:   e.CreatedAt,
		}
	}
	return items
}

// ToAcceptPreviewLine converts a costing effect to its read model
func ToAcceptPreviewLine(effect trade.CostingEffect) AcceptPreviewLine {
	line := AcceptPreviewLine{
		VariantID:       effect.VariantID,
		SKU:             effect.SKU,
		AddedQty:        effect.AddedQty,
		OldStock:        effect.OldStock,
		NewStock:        effect.NewStock,
		IncomingAvgCost: effect.IncomingAvgCost,
		NewCost:         effect.NewCost,
	}
	if effect.OldCost.Valid {
		old := effect.OldCost.Decimal
		line.OldCost = &old
	}
	return line
}
