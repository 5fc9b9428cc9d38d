package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/oms/backend/internal/application/trade"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseInvoiceHandler handles purchase invoice API endpoints
type PurchaseInvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.PurchaseInvoiceService
	receiptHandler *ReceiptHandler
}

// NewPurchaseInvoiceHandler creates a new PurchaseInvoiceHandler
func NewPurchaseInvoiceHandler(invoiceService *tradeapp.PurchaseInvoiceService, receiptHandler *ReceiptHandler) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{
		invoiceService: invoiceService,
		receiptHandler: receiptHandler,
	}
}

// PurchaseLineInput represents one line in a purchase invoice request
// @Description Purchase invoice line
type PurchaseLineInput struct {
	VariantID string  `json:"variant_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0" example:"50"`
	UnitCost  float64 `json:"unit_cost" binding:"required,gt=0" example:"42.50"`
}

// CreatePurchaseInvoiceRequest represents a request to create a purchase invoice
// @Description Request body for creating a purchase invoice (starts pending)
type CreatePurchaseInvoiceRequest struct {
	SupplierID    string              `json:"supplier_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	ReceiptNumber string              `json:"receipt_number" binding:"required,min=1,max=100" example:"RCPT-2026-0042"`
	PaidAmount    float64             `json:"paid_amount" binding:"gte=0" example:"1000.00"`
	Notes         string              `json:"notes" binding:"max=1000"`
	Lines         []PurchaseLineInput `json:"lines" binding:"required,min=1,dive"`
}

// UpdatePurchaseInvoiceRequest represents a request to update a pending invoice
// @Description Request body for updating a non-accepted purchase invoice. Omitted fields are left unchanged.
type UpdatePurchaseInvoiceRequest struct {
	Lines      *[]PurchaseLineInput `json:"lines"`
	PaidAmount *float64             `json:"paid_amount"`
	Notes      *string              `json:"notes"`
}

// ChangePurchaseStatusRequest represents an approval status transition request
// @Description Request body for moving a purchase invoice between approval states
type ChangePurchaseStatusRequest struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

// PurchaseInvoiceListQuery captures purchase invoice list query parameters
type PurchaseInvoiceListQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
	Search     string `form:"search"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
}

// AuditListQuery captures audit listing query parameters
type AuditListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Action   string `form:"action"`
}

func (h *PurchaseInvoiceHandler) toLineInputs(c *gin.Context, lines []PurchaseLineInput) ([]tradeapp.PurchaseLineInput, bool) {
	inputs := make([]tradeapp.PurchaseLineInput, 0, len(lines))
	for _, line := range lines {
		variantID, err := uuid.Parse(line.VariantID)
		if err != nil {
			h.BadRequest(c, "Invalid variant ID format")
			return nil, false
		}
		inputs = append(inputs, tradeapp.PurchaseLineInput{
			VariantID: variantID,
			Quantity:  line.Quantity,
			UnitCost:  decimal.NewFromFloat(line.UnitCost),
		})
	}
	return inputs, true
}

// Create godoc
// @Summary      Create a purchase invoice
// @Description  Create a pending purchase invoice. Stock and costs are untouched until acceptance.
// @Tags         purchase-invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreatePurchaseInvoiceRequest true "Invoice creation request"
// @Success      201 {object} dto.Response{data=trade.PurchaseInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices [post]
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreatePurchaseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	lines, ok := h.toLineInputs(c, req.Lines)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, tradeapp.CreatePurchaseInvoiceRequest{
		SupplierID:    supplierID,
		ReceiptNumber: req.ReceiptNumber,
		PaidAmount:    decimal.NewFromFloat(req.PaidAmount),
		Notes:         req.Notes,
		Lines:         lines,
		Actor:         getActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @Summary      Get purchase invoice by ID
// @Tags         purchase-invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=trade.PurchaseInvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id} [get]
func (h *PurchaseInvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List purchase invoices
// @Description  Retrieve a paginated list of purchase invoices with optional status and supplier filters
// @Tags         purchase-invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Approval status filter" Enums(pending, accepted, rejected)
// @Param        supplier_id query string false "Supplier ID filter" format(uuid)
// @Success      200 {object} dto.Response{data=[]trade.PurchaseInvoiceResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /purchase-invoices [get]
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query PurchaseInvoiceListQuery
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

	filter := tradeapp.PurchaseInvoiceListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	}
	if query.Status != "" {
		status := trade.PurchaseStatus(query.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if query.SupplierID != "" {
		supplierID, err := uuid.Parse(query.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &supplierID
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, query.Page, query.PageSize)
}

// Update godoc
// @Summary      Update a purchase invoice
// @Description  Replace lines and/or paid amount while the invoice is not accepted
// @Tags         purchase-invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Param        request body UpdatePurchaseInvoiceRequest true "Invoice update request"
// @Success      200 {object} dto.Response{data=trade.PurchaseInvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id} [put]
func (h *PurchaseInvoiceHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req UpdatePurchaseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := tradeapp.UpdatePurchaseInvoiceRequest{
		Notes: req.Notes,
		Actor: getActor(c),
	}
	if req.Lines != nil {
		lines, ok := h.toLineInputs(c, *req.Lines)
		if !ok {
			return
		}
		appReq.Lines = &lines
	}
	if req.PaidAmount != nil {
		paid := decimal.NewFromFloat(*req.PaidAmount)
		appReq.PaidAmount = &paid
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, invoiceID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// ChangeStatus godoc
// @Summary      Change purchase invoice approval status
// @Description  Move an invoice between pending, accepted and rejected. Acceptance applies stock and weighted-average costs; leaving accepted rolls them back.
// @Tags         purchase-invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Param        request body ChangePurchaseStatusRequest true "Status transition request"
// @Success      200 {object} dto.Response{data=trade.PurchaseInvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id}/status [patch]
func (h *PurchaseInvoiceHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req ChangePurchaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := trade.PurchaseStatus(req.Status)
	if !status.IsValid() {
		h.BadRequest(c, "Invalid purchase status")
		return
	}

	invoice, err := h.invoiceService.ChangeStatus(c.Request.Context(), tenantID, invoiceID, tradeapp.ChangePurchaseStatusRequest{
		Status: status,
		Actor:  getActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// AcceptPreview godoc
// @Summary      Preview acceptance effects
// @Description  Dry-run the stock and weighted-average cost effects of accepting this invoice. Mutates nothing.
// @Tags         purchase-invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=trade.AcceptPreviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id}/accept-preview [get]
func (h *PurchaseInvoiceHandler) AcceptPreview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	preview, err := h.invoiceService.AcceptPreview(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, preview)
}

// Audit godoc
// @Summary      List invoice audit entries
// @Description  Retrieve the append-only audit trail of an invoice, newest first
// @Tags         purchase-invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        action query string false "Action filter" example:"price-updated"
// @Success      200 {object} dto.Response{data=[]trade.AuditEntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id}/audit [get]
func (h *PurchaseInvoiceHandler) Audit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var query AuditListQuery
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

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Action != "" {
		filter.Filters = map[string]interface{}{"action": query.Action}
	}

	entries, total, err := h.invoiceService.AuditTrail(c.Request.Context(), tenantID, invoiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, query.Page, query.PageSize)
}

// Delete godoc
// @Summary      Delete a purchase invoice
// @Description  Delete an invoice that is not accepted. Its audit trail is kept.
// @Tags         purchase-invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id} [delete]
func (h *PurchaseInvoiceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID, getActor(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers purchase invoice routes
func (h *PurchaseInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/purchase-invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.PUT("/:id", h.Update)
		invoices.PATCH("/:id/status", h.ChangeStatus)
		invoices.GET("/:id/accept-preview", h.AcceptPreview)
		invoices.GET("/:id/audit", h.Audit)
		invoices.DELETE("/:id", h.Delete)
		invoices.GET("/:id/receipt", h.receiptHandler.InvoiceDocument)
	}
}
