package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/oms/backend/internal/application/trade"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService   *tradeapp.OrderService
	receiptHandler *ReceiptHandler
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, receiptHandler *ReceiptHandler) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		receiptHandler: receiptHandler,
	}
}

// CreateOrderLineInput represents one line in the create order request
// @Description Order line for creation
type CreateOrderLineInput struct {
	VariantID string  `json:"variant_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0" example:"2"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0" example:"149.99"`
}

// CreateOrderRequest represents a request to create a new order
// @Description Request body for creating a new order
type CreateOrderRequest struct {
	CustomerName    string                 `json:"customer_name" binding:"required,min=1,max=200" example:"Jane Smith"`
	CustomerPhone   string                 `json:"customer_phone" binding:"max=50" example:"+33 6 12 34 56 78"`
	ShippingAddress string                 `json:"shipping_address" binding:"max=500" example:"12 Rue de la Paix"`
	ShippingCity    string                 `json:"shipping_city" binding:"max=100" example:"Paris"`
	Notes           string                 `json:"notes" binding:"max=1000" example:"Ring the bell twice"`
	ShippingCost    float64                `json:"shipping_cost" binding:"gte=0" example:"7.50"`
	Discount        float64                `json:"discount" binding:"gte=0" example:"10.00"`
	Lines           []CreateOrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// ChangeOrderStatusRequest represents a status transition request
// @Description Request body for moving an order to another status
type ChangeOrderStatusRequest struct {
	StatusCode string `json:"status_code" binding:"required,orderstatus" example:"PREPARING"`
	Note       string `json:"note" binding:"max=500" example:"Picked by warehouse"`
}

// OrderListQuery captures order list query parameters
type OrderListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// Create godoc
// @Summary      Create a new order
// @Description  Create an order and reserve stock for every line atomically
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=trade.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := tradeapp.CreateOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		Notes:           req.Notes,
		ShippingCost:    decimal.NewFromFloat(req.ShippingCost),
		Discount:        decimal.NewFromFloat(req.Discount),
		Actor:           getActor(c),
	}

	for _, line := range req.Lines {
		variantID, err := uuid.Parse(line.VariantID)
		if err != nil {
			h.BadRequest(c, "Invalid variant ID format")
			return
		}
		appReq.Lines = append(appReq.Lines, tradeapp.CreateOrderLineInput{
			VariantID: variantID,
			Quantity:  line.Quantity,
			UnitPrice: decimal.NewFromFloat(line.UnitPrice),
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get order by ID
// @Description  Retrieve an order with its lines
// @Tags         orders
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Retrieve a paginated list of orders with optional status filter and search
// @Tags         orders
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status code filter" example:"NEW"
// @Param        search query string false "Search in order number, customer name, phone"
// @Success      200 {object} dto.Response{data=[]trade.OrderListItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	filter := tradeapp.OrderListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	}
	if query.Status != "" {
		code := trade.OrderStatusCode(query.Status)
		if !code.IsValid() {
			h.BadRequest(c, "Invalid status code filter")
			return
		}
		filter.StatusCode = &code
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, query.Page, query.PageSize)
}

// ChangeStatus godoc
// @Summary      Change order status
// @Description  Move an order along the status graph. CANCELLED/RETURNED release reservations; SHIPPED deducts stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ChangeOrderStatusRequest true "Status transition request"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	code := trade.OrderStatusCode(req.StatusCode)
	if !code.IsValid() {
		h.BadRequest(c, "Invalid status code")
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), tenantID, orderID, tradeapp.ChangeOrderStatusRequest{
		StatusCode: code,
		Note:       req.Note,
		Actor:      getActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Delete an order. Only NEW and CANCELLED orders can be deleted; NEW releases its reservations first.
// @Tags         orders
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID, getActor(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// History godoc
// @Summary      Get order status history
// @Description  Retrieve the chronological status history of an order
// @Tags         orders
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trade.OrderHistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/history [get]
func (h *OrderHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	history, err := h.orderService.History(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id/status", h.ChangeStatus)
		orders.DELETE("/:id", h.Delete)
		orders.GET("/:id/history", h.History)
		orders.GET("/:id/receipt", h.receiptHandler.OrderReceipt)
	}
}
