package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/oms/backend/internal/application/printing"
)

// ReceiptHandler serves rendered order receipts and purchase invoice
// documents. HTML is returned inline; PDF responses carry the archive's
// presigned download URL alongside the bytes.
type ReceiptHandler struct {
	BaseHandler
	receiptService *printingapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *printingapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// ReceiptURLData carries the archived PDF location
// @Description Archived receipt PDF location
type ReceiptURLData struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

func (h *ReceiptHandler) respond(c *gin.Context, resp *printingapp.ReceiptResponse) {
	switch resp.ContentType {
	case "application/pdf":
		if resp.URL != "" {
			h.Success(c, ReceiptURLData{URL: resp.URL, StorageKey: resp.StorageKey})
			return
		}
		c.Data(http.StatusOK, resp.ContentType, resp.PDF)
	default:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(resp.HTML))
	}
}

// OrderReceipt godoc
// @Summary      Render an order receipt
// @Description  Render the receipt for an order as HTML or archived PDF
// @Tags         orders
// @Produce      html
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Order ID" format(uuid)
// @Param        format query string false "Output format" Enums(html, pdf) default(html)
// @Success      200 {string} string "Rendered receipt"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/receipt [get]
func (h *ReceiptHandler) OrderReceipt(c *gin.Context) {
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

	format := printingapp.ReceiptFormat(c.DefaultQuery("format", string(printingapp.FormatHTML)))

	resp, err := h.receiptService.OrderReceipt(c.Request.Context(), tenantID, orderID, format)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.respond(c, resp)
}

// InvoiceDocument godoc
// @Summary      Render a purchase invoice document
// @Description  Render the document for a purchase invoice as HTML or archived PDF
// @Tags         purchase-invoices
// @Produce      html
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Purchase Invoice ID" format(uuid)
// @Param        format query string false "Output format" Enums(html, pdf) default(html)
// @Success      200 {string} string "Rendered document"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-invoices/{id}/receipt [get]
func (h *ReceiptHandler) InvoiceDocument(c *gin.Context) {
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

	format := printingapp.ReceiptFormat(c.DefaultQuery("format", string(printingapp.FormatHTML)))

	resp, err := h.receiptService.InvoiceDocument(c.Request.Context(), tenantID, invoiceID, format)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.respond(c, resp)
}
