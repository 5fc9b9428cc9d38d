package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLine is a single reservation unit within an order. Lines are
// created once at order creation and never change afterwards; quantity,
// sale price and the variant's cost snapshot are frozen at that moment.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(100);not null"`
	VariantName string          `gorm:"type:varchar(255);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cost snapshot at creation
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, variantID uuid.UUID, sku, variantName string, quantity int64, unitPrice, unitCost decimal.Decimal) (*OrderLine, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &OrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		VariantID:   variantID,
		SKU:         sku,
		VariantName: variantName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		UnitCost:    unitCost,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Margin returns the profit contribution of this line
func (l *OrderLine) Margin() decimal.Decimal {
	return l.UnitPrice.Sub(l.UnitCost).Mul(decimal.NewFromInt(l.Quantity))
}

// Order is the aggregate driving a customer order through its lifecycle.
// Its status walks the OrderStatusCode graph; stock side effects of each
// transition are applied by the application service against the variant
// ledger inside the same transaction.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	CustomerName    string          `gorm:"type:varchar(255);not null"`
	CustomerPhone   string          `gorm:"type:varchar(50)"`
	ShippingAddress string          `gorm:"type:varchar(500)"`
	ShippingCity    string          `gorm:"type:varchar(100)"`
	Notes           string          `gorm:"type:text"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	StatusCode      OrderStatusCode `gorm:"type:varchar(32);not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Profit          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the tenant's default status
func NewOrder(tenantID uuid.UUID, orderNumber, customerName string, shippingCost, discount decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerName:        customerName,
		Lines:               make([]OrderLine, 0),
		StatusCode:          DefaultOrderStatusCode(),
		Subtotal:            decimal.Zero,
		ShippingCost:        shippingCost,
		Discount:            discount,
		Total:               decimal.Zero,
		Profit:              decimal.Zero,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// SetCustomerContact fills the optional customer and shipping fields
func (o *Order) SetCustomerContact(phone, address, city, notes string) {
	o.CustomerPhone = phone
	o.ShippingAddress = address
	o.ShippingCity = city
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// AddLine adds a reservation line while the order is still being built.
// Once the order has left its initial status the line set is frozen.
func (o *Order) AddLine(variantID uuid.UUID, sku, variantName string, quantity int64, unitPrice, unitCost decimal.Decimal) (*OrderLine, error) {
	if o.StatusCode != DefaultOrderStatusCode() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order lines are immutable after creation")
	}

	line, err := NewOrderLine(o.ID, variantID, sku, variantName, quantity, unitPrice, unitCost)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return line, nil
}

// TransitionTo moves the order along one edge of the status graph.
// Attempting an edge that is not in the table fails and leaves the order
// untouched. Shipping and delivery timestamps are stamped on first entry
// only. The caller's no-op check keeps same-status calls from reaching
// this method.
func (o *Order) TransitionTo(target OrderStatusCode) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status code: %s", target))
	}
	if !o.StatusCode.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order %s cannot move from %s to %s", o.OrderNumber, o.StatusCode, target))
	}

	from := o.StatusCode
	now := time.Now()
	o.StatusCode = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	case OrderStatusCancelled:
		o.AddDomainEvent(NewOrderCancelledEvent(o, from))
	}

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// CanDelete reports whether the order may be hard-deleted. Only orders
// that never affected stock permanently qualify.
func (o *Order) CanDelete() bool {
	return o.StatusCode == OrderStatusNew || o.StatusCode == OrderStatusCancelled
}

// HoldsReservation reports whether the order's lines are still earmarked
// in the ledger. Reservations exist from creation until the order is
// delivered, cancelled or returned.
func (o *Order) HoldsReservation() bool {
	switch o.StatusCode {
	case OrderStatusNew, OrderStatusUnderReview, OrderStatusPreparing, OrderStatusReady, OrderStatusShipped:
		return true
	}
	return false
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// GetLineByVariant returns the line for a variant, or nil
func (o *Order) GetLineByVariant(variantID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].VariantID == variantID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// recalculateTotals recomputes subtotal, final total and profit from the lines
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	profit := decimal.Zero
	for _, line := range o.Lines {
		subtotal = subtotal.Add(line.LineTotal)
		profit = profit.Add(line.Margin())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.ShippingCost).Sub(o.Discount)
	o.Profit = profit
}
