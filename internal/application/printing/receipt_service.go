package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/partner"
	domainprinting "github.com/oms/backend/internal/domain/printing"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	infra "github.com/oms/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReceiptService renders order receipts and purchase invoice documents.
// Rendering is a read-only projection; a failure here never touches
// ledger state.
type ReceiptService struct {
	orderRepo    trade.OrderRepository
	invoiceRepo  trade.PurchaseInvoiceRepository
	supplierRepo partner.SupplierRepository
	renderer     infra.PDFRenderer
	archive      infra.ReceiptArchive
	logger       *zap.Logger

	orderTmpl   *template.Template
	invoiceTmpl *template.Template
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	orderRepo trade.OrderRepository,
	invoiceRepo trade.PurchaseInvoiceRepository,
	supplierRepo partner.SupplierRepository,
	renderer infra.PDFRenderer,
	archive infra.ReceiptArchive,
	logger *zap.Logger,
) (*ReceiptService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	titleCaser := cases.Title(language.English)
	funcs := template.FuncMap{
		"title": titleCaser.String,
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}

	orderTmpl, err := template.New("order_receipt").Funcs(funcs).Parse(orderReceiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse order receipt template: %w", err)
	}
	invoiceTmpl, err := template.New("invoice_document").Funcs(funcs).Parse(invoiceDocumentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice document template: %w", err)
	}

	return &ReceiptService{
		orderRepo:    orderRepo,
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		renderer:     renderer,
		archive:      archive,
		logger:       logger,
		orderTmpl:    orderTmpl,
		invoiceTmpl:  invoiceTmpl,
	}, nil
}

// OrderReceipt renders the receipt for one order
func (s *ReceiptService) OrderReceipt(ctx context.Context, tenantID, orderID uuid.UUID, format ReceiptFormat) (*ReceiptResponse, error) {
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported receipt format: %s", format))
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.orderTmpl.Execute(&buf, order); err != nil {
		return nil, fmt.Errorf("render order receipt: %w", err)
	}

	if format == FormatHTML {
		return &ReceiptResponse{HTML: buf.String(), ContentType: "text/html"}, nil
	}
	return s.toPDF(ctx, tenantID, "orders", orderID, "Receipt "+order.OrderNumber, buf.String())
}

// InvoiceDocument renders the document for one purchase invoice
func (s *ReceiptService) InvoiceDocument(ctx context.Context, tenantID, invoiceID uuid.UUID, format ReceiptFormat) (*ReceiptResponse, error) {
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported receipt format: %s", format))
	}

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	supplierName := ""
	if supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, invoice.SupplierID); err == nil {
		supplierName = supplier.Name
	}

	data := struct {
		*trade.PurchaseInvoice
		SupplierName string
	}{invoice, supplierName}

	var buf bytes.Buffer
	if err := s.invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice document: %w", err)
	}

	if format == FormatHTML {
		return &ReceiptResponse{HTML: buf.String(), ContentType: "text/html"}, nil
	}
	return s.toPDF(ctx, tenantID, "purchase-invoices", invoiceID, "Invoice "+invoice.ReceiptNumber, buf.String())
}

func (s *ReceiptService) toPDF(ctx context.Context, tenantID uuid.UUID, kind string, id uuid.UUID, title, html string) (*ReceiptResponse, error) {
	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:        html,
		PaperSize:   domainprinting.PaperSizeReceipt80MM,
		Orientation: domainprinting.OrientationPortrait,
		Margins:     domainprinting.ReceiptMargins(),
		Title:       title,
	})
	if err != nil {
		s.logger.Error("pdf render failed",
			zap.String("kind", kind),
			zap.String("id", id.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("RENDER_FAILED", "Could not render the document")
	}

	key := fmt.Sprintf("receipts/%s/%s/%s.pdf", tenantID, kind, id)
	url, err := s.archive.Store(ctx, key, result.PDFData)
	if err != nil {
		s.logger.Error("receipt archive failed",
			zap.String("key", key),
			zap.Error(err))
		return nil, shared.NewDomainError("ARCHIVE_FAILED", "Could not archive the document")
	}

	return &ReceiptResponse{
		PDF:         result.PDFData,
		URL:         url,
		ContentType: "application/pdf",
		StorageKey:  key,
	}, nil
}
