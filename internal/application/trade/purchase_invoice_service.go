package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/catalog"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
)

// PurchaseInvoiceService runs the purchase approval workflow. Accepting
// an invoice injects stock and blends the weighted-average cost; moving
// it away from accepted reverses the injection and replays the recorded
// prior cost out of the audit trail. Every mutation the workflow
// performs is written to the append-only audit trail inside the same
// transaction.
type PurchaseInvoiceService struct {
	scope TransactionScope
}

// NewPurchaseInvoiceService creates a new PurchaseInvoiceService
func NewPurchaseInvoiceService(scope TransactionScope) *PurchaseInvoiceService {
	return &PurchaseInvoiceService{scope: scope}
}

// Create creates a pending purchase invoice and its created audit entry
func (s *PurchaseInvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseInvoiceRequest) (*PurchaseInvoiceResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice requires at least one line")
	}

	var response PurchaseInvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.SupplierRepo().FindByIDForTenant(ctx, tenantID, req.SupplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Supplier %s not found", req.SupplierID))
			}
			return err
		}

		exists, err := repos.InvoiceRepo().ExistsByReceiptNumber(ctx, tenantID, req.ReceiptNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Receipt number %s is already taken", req.ReceiptNumber))
		}

		invoice, err := trade.NewPurchaseInvoice(tenantID, req.SupplierID, req.ReceiptNumber, req.PaidAmount)
		if err != nil {
			return err
		}
		invoice.SetNotes(req.Notes)

		if err := s.appendRequestedLines(ctx, repos, tenantID, invoice, req.Lines); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		if err := s.audit(ctx, repos, invoice, trade.AuditActionCreated, nil,
			fmt.Sprintf("Invoice %s created with %d lines", invoice.ReceiptNumber, invoice.LineCount()), req.Actor); err != nil {
			return err
		}

		if err := repos.SaveEvents(ctx, invoice.GetDomainEvents()...); err != nil {
			return err
		}
		invoice.ClearDomainEvents()

		response = ToPurchaseInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ChangeStatus transitions an invoice between approval states, applying
// or reversing its stock and cost effect on the ledger as the transition
// enters or leaves accepted. Requesting the current status is a no-op.
func (s *PurchaseInvoiceService) ChangeStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, req ChangePurchaseStatusRequest) (*PurchaseInvoiceResponse, error) {
	if !req.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown purchase status: %s", req.Status))
	}

	var response PurchaseInvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		if invoice.Status == req.Status {
			response = ToPurchaseInvoiceResponse(invoice)
			return nil
		}

		from := invoice.Status
		wasAccepted := invoice.IsAccepted()
		willBeAccepted := req.Status == trade.PurchaseStatusAccepted

		switch {
		case willBeAccepted && !wasAccepted:
			if err := s.applyAcceptance(ctx, repos, invoice, req.Actor); err != nil {
				return err
			}
		case wasAccepted && !willBeAccepted:
			if err := s.reverseAcceptance(ctx, repos, invoice, req.Actor); err != nil {
				return err
			}
		}

		if err := invoice.TransitionTo(req.Status); err != nil {
			return err
		}
		if willBeAccepted {
			invoice.AddDomainEvent(trade.NewPurchaseAcceptedEvent(invoice))
		} else if wasAccepted {
			invoice.AddDomainEvent(trade.NewPurchaseUnacceptedEvent(invoice, req.Status))
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		statusChange := trade.AuditChangeList{{
			OldStatus: string(from),
			NewStatus: string(req.Status),
		}}
		if err := s.audit(ctx, repos, invoice, trade.AuditActionStatusChanged, statusChange,
			fmt.Sprintf("Status changed from %s to %s", from, req.Status), req.Actor); err != nil {
			return err
		}

		if err := repos.SaveEvents(ctx, invoice.GetDomainEvents()...); err != nil {
			return err
		}
		invoice.ClearDomainEvents()

		response = ToPurchaseInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// AcceptPreview computes the effect accepting the invoice would have on
// each variant's stock and cost without mutating anything
func (s *PurchaseInvoiceService) AcceptPreview(ctx context.Context, tenantID, invoiceID uuid.UUID) (*AcceptPreviewResponse, error) {
	var response AcceptPreviewResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.IsAccepted() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Invoice %s is already accepted", invoice.ReceiptNumber))
		}

		receipts := invoice.AggregateByVariant()
		variants, err := s.loadReceiptVariants(ctx, repos, invoice.TenantID, receipts, false)
		if err != nil {
			return err
		}

		effects, err := costingEffects(receipts, variants)
		if err != nil {
			return err
		}

		lines := make([]AcceptPreviewLine, len(effects))
		for i, effect := range effects {
			lines[i] = ToAcceptPreviewLine(effect)
		}
		response = AcceptPreviewResponse{
			InvoiceID:     invoice.ID,
			ReceiptNumber: invoice.ReceiptNumber,
			Lines:         lines,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update replaces an invoice's lines and/or paid amount while it is not
// accepted. Line edits on an accepted invoice are rejected.
func (s *PurchaseInvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdatePurchaseInvoiceRequest) (*PurchaseInvoiceResponse, error) {
	var response PurchaseInvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		linesChanged := req.Lines != nil
		if linesChanged && !invoice.CanModifyLines() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Invoice %s is accepted; line items are locked", invoice.ReceiptNumber))
		}

		oldPaid := invoice.PaidAmount
		if linesChanged {
			if len(*req.Lines) == 0 {
				return shared.NewDomainError("INVALID_INPUT", "Invoice requires at least one line")
			}
			if err := invoice.ReplaceLines(nil); err != nil {
				return err
			}
			if err := s.appendRequestedLines(ctx, repos, tenantID, invoice, *req.Lines); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			invoice.SetNotes(*req.Notes)
		}
		if req.PaidAmount != nil {
			if err := invoice.SetPaidAmount(*req.PaidAmount); err != nil {
				return err
			}
		} else if linesChanged {
			// Recompute the remainder against the new total
			if err := invoice.SetPaidAmount(oldPaid); err != nil {
				return err
			}
		}

		if linesChanged {
			if err := repos.InvoiceRepo().ReplaceLines(ctx, invoice); err != nil {
				return err
			}
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		paidChanged := req.PaidAmount != nil && !req.PaidAmount.Equal(oldPaid)
		switch {
		case linesChanged:
			if err := s.audit(ctx, repos, invoice, trade.AuditActionUpdated, nil,
				fmt.Sprintf("Invoice %s updated, %d lines", invoice.ReceiptNumber, invoice.LineCount()), req.Actor); err != nil {
				return err
			}
		case paidChanged:
			changes := trade.AuditChangeList{{
				OldPaidAmount: &oldPaid,
				NewPaidAmount: req.PaidAmount,
			}}
			if err := s.audit(ctx, repos, invoice, trade.AuditActionPaidAmountUpdated, changes,
				fmt.Sprintf("Paid amount changed from %s to %s", oldPaid, req.PaidAmount), req.Actor); err != nil {
				return err
			}
		}

		response = ToPurchaseInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes an invoice that is not accepted. The audit trail keeps
// the invoice's history, closed by a terminal deleted entry.
func (s *PurchaseInvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID, actor string) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		if !invoice.CanDelete() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Invoice %s is accepted and cannot be deleted", invoice.ReceiptNumber))
		}

		if err := repos.InvoiceRepo().DeleteForTenant(ctx, tenantID, invoice.ID); err != nil {
			return err
		}

		return s.audit(ctx, repos, invoice, trade.AuditActionDeleted, nil,
			fmt.Sprintf("Invoice %s deleted", invoice.ReceiptNumber), actor)
	})
}

// GetByID retrieves an invoice with its lines
func (s *PurchaseInvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PurchaseInvoiceResponse, error) {
	var response PurchaseInvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		response = ToPurchaseInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *PurchaseInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseInvoiceListFilter) ([]PurchaseInvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	var items []PurchaseInvoiceResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.InvoiceRepo().CountForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		items = ToPurchaseInvoiceResponses(invoices)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AuditTrail returns an invoice's audit entries, newest first. The
// invoice itself may already be deleted; its trail survives.
func (s *PurchaseInvoiceService) AuditTrail(ctx context.Context, tenantID, invoiceID uuid.UUID, filter shared.Filter) ([]AuditEntryResponse, int64, error) {
	var items []AuditEntryResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, err := repos.AuditRepo().FindByInvoice(ctx, tenantID, invoiceID, filter)
		if err != nil {
			return err
		}
		total, err = repos.AuditRepo().CountByInvoice(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		items = ToAuditEntryResponses(entries)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// applyAcceptance injects the invoice's aggregated quantities into the
// ledger and blends the weighted-average cost per variant, writing the
// stock-applied and price-updated audit entries.
func (s *PurchaseInvoiceService) applyAcceptance(ctx context.Context, repos TransactionalRepositories, invoice *trade.PurchaseInvoice, actor string) error {
	receipts := invoice.AggregateByVariant()
	variants, err := s.loadReceiptVariants(ctx, repos, invoice.TenantID, receipts, true)
	if err != nil {
		return err
	}

	effects, err := costingEffects(receipts, variants)
	if err != nil {
		return err
	}

	stockChanges := make(trade.AuditChangeList, 0, len(effects))
	priceChanges := make(trade.AuditChangeList, 0, len(effects))

	for _, effect := range effects {
		variant := variants[effect.VariantID]
		if err := variant.Increase(effect.AddedQty); err != nil {
			return err
		}
		if effect.CostChanged() {
			newCost := effect.NewCost
			if err := variant.SetCost(newCost); err != nil {
				return err
			}
			change := trade.AuditChange{
				VariantID:       effect.VariantID,
				SKU:             effect.SKU,
				NewPrice:        &newCost,
				IncomingAvgCost: &effect.IncomingAvgCost,
			}
			if effect.OldCost.Valid {
				old := effect.OldCost.Decimal
				change.OldPrice = &old
			}
			priceChanges = append(priceChanges, change)
		}

		oldStock := effect.OldStock
		newStock := effect.NewStock
		addedQty := effect.AddedQty
		stockChanges = append(stockChanges, trade.AuditChange{
			VariantID: effect.VariantID,
			SKU:       effect.SKU,
			OldStock:  &oldStock,
			NewStock:  &newStock,
			AddedQty:  &addedQty,
		})
	}

	if err := s.saveReceiptVariants(ctx, repos, variants); err != nil {
		return err
	}

	if err := s.audit(ctx, repos, invoice, trade.AuditActionStockApplied, stockChanges,
		fmt.Sprintf("Stock applied for invoice %s", invoice.ReceiptNumber), actor); err != nil {
		return err
	}
	if len(priceChanges) > 0 {
		if err := s.audit(ctx, repos, invoice, trade.AuditActionPriceUpdated, priceChanges,
			fmt.Sprintf("Weighted-average cost updated for invoice %s", invoice.ReceiptNumber), actor); err != nil {
			return err
		}
	}

	return s.flushVariantEvents(ctx, repos, variants)
}

// reverseAcceptance removes the invoice's aggregated quantities from the
// ledger and replays the cost recorded by the most recent price-updated
// audit entry. A removal that would cross zero blocks the transition.
func (s *PurchaseInvoiceService) reverseAcceptance(ctx context.Context, repos TransactionalRepositories, invoice *trade.PurchaseInvoice, actor string) error {
	receipts := invoice.AggregateByVariant()
	variants, err := s.loadReceiptVariants(ctx, repos, invoice.TenantID, receipts, true)
	if err != nil {
		return err
	}

	stockChanges := make(trade.AuditChangeList, 0, len(receipts))
	for _, receipt := range receipts {
		variant := variants[receipt.VariantID]
		oldStock := variant.StockOnHand
		if err := variant.Decrease(receipt.Quantity); err != nil {
			return err
		}
		newStock := variant.StockOnHand
		removedQty := receipt.Quantity
		stockChanges = append(stockChanges, trade.AuditChange{
			VariantID: receipt.VariantID,
			SKU:       receipt.SKU,
			OldStock:  &oldStock,
			NewStock:  &newStock,
			AddedQty:  &removedQty,
		})
	}

	if err := s.audit(ctx, repos, invoice, trade.AuditActionStockRemoved, stockChanges,
		fmt.Sprintf("Stock removed for invoice %s", invoice.ReceiptNumber), actor); err != nil {
		return err
	}

	// The audit trail is the rollback source: replay the prior cost the
	// acceptance recorded rather than recomputing an inverse blend.
	latest, err := repos.AuditRepo().FindLatestByAction(ctx, invoice.TenantID, invoice.ID, trade.AuditActionPriceUpdated)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if latest != nil {
		rollback := make(trade.AuditChangeList, 0, len(latest.Changes))
		for _, change := range latest.Changes {
			variant, ok := variants[change.VariantID]
			if !ok {
				loaded, err := repos.VariantRepo().FindByIDForTenantLocked(ctx, invoice.TenantID, change.VariantID)
				if err != nil {
					return err
				}
				variant = loaded
				variants[change.VariantID] = variant
			}
			if change.OldPrice != nil {
				if err := variant.SetCost(*change.OldPrice); err != nil {
					return err
				}
			} else {
				variant.ClearCost()
			}
			rollback = append(rollback, change)
		}
		if err := s.audit(ctx, repos, invoice, trade.AuditActionPriceRolledBack, rollback,
			fmt.Sprintf("Cost rolled back for invoice %s", invoice.ReceiptNumber), actor); err != nil {
			return err
		}
	}

	if err := s.saveReceiptVariants(ctx, repos, variants); err != nil {
		return err
	}
	return s.flushVariantEvents(ctx, repos, variants)
}

// appendRequestedLines validates each requested line against the variant
// catalog and appends it to the invoice with a SKU snapshot
func (s *PurchaseInvoiceService) appendRequestedLines(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, invoice *trade.PurchaseInvoice, lines []PurchaseLineInput) error {
	for _, line := range lines {
		variant, err := repos.VariantRepo().FindByIDForTenant(ctx, tenantID, line.VariantID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Variant %s not found", line.VariantID))
			}
			return err
		}
		if _, err := invoice.AddLine(variant.ID, variant.SKU, variant.Name, line.Quantity, line.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// loadReceiptVariants loads the variants named by the aggregated
// receipts, locked for update when the caller will mutate them
func (s *PurchaseInvoiceService) loadReceiptVariants(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, receipts []trade.VariantReceipt, locked bool) (map[uuid.UUID]*catalog.Variant, error) {
	ids := make([]uuid.UUID, len(receipts))
	for i, receipt := range receipts {
		ids[i] = receipt.VariantID
	}

	var (
		variants []catalog.Variant
		err      error
	)
	if locked {
		variants, err = repos.VariantRepo().FindByIDsForTenantLocked(ctx, tenantID, ids)
	} else {
		variants, err = findVariantsUnlocked(ctx, repos, tenantID, ids)
	}
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Variant, len(variants))
	for idx := range variants {
		byID[variants[idx].ID] = &variants[idx]
	}
	for _, receipt := range receipts {
		if _, ok := byID[receipt.VariantID]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Variant %s not found", receipt.SKU))
		}
	}
	return byID, nil
}

func findVariantsUnlocked(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Variant, error) {
	variants := make([]catalog.Variant, 0, len(ids))
	for _, id := range ids {
		variant, err := repos.VariantRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		variants = append(variants, *variant)
	}
	return variants, nil
}

// saveReceiptVariants persists mutated variants in deterministic order
func (s *PurchaseInvoiceService) saveReceiptVariants(ctx context.Context, repos TransactionalRepositories, variants map[uuid.UUID]*catalog.Variant) error {
	ids := make([]uuid.UUID, 0, len(variants))
	for id := range variants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a].String() < ids[b].String() })

	for _, id := range ids {
		if err := repos.VariantRepo().SaveWithLock(ctx, variants[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PurchaseInvoiceService) flushVariantEvents(ctx context.Context, repos TransactionalRepositories, variants map[uuid.UUID]*catalog.Variant) error {
	events := make([]shared.DomainEvent, 0)
	for _, variant := range variants {
		events = append(events, variant.GetDomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}
	if err := repos.SaveEvents(ctx, events...); err != nil {
		return err
	}
	for _, variant := range variants {
		variant.ClearDomainEvents()
	}
	return nil
}

func (s *PurchaseInvoiceService) audit(ctx context.Context, repos TransactionalRepositories, invoice *trade.PurchaseInvoice, action trade.AuditAction, changes trade.AuditChangeList, description, actor string) error {
	entry, err := trade.NewPurchaseAuditEntry(invoice.TenantID, invoice.ID, action, changes, description, actor)
	if err != nil {
		return err
	}
	return repos.AuditRepo().Append(ctx, entry)
}

// costingEffects computes, per aggregated receipt, the stock delta and
// the weighted-average cost recomputation acceptance would apply.
// Receipts arrive ordered by variant ID and the effects keep that order.
func costingEffects(receipts []trade.VariantReceipt, variants map[uuid.UUID]*catalog.Variant) ([]trade.CostingEffect, error) {
	effects := make([]trade.CostingEffect, 0, len(receipts))
	for _, receipt := range receipts {
		variant, ok := variants[receipt.VariantID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Variant %s not found", receipt.SKU))
		}

		incomingAvg := receipt.IncomingAvgCost()
		effects = append(effects, trade.CostingEffect{
			VariantID:       receipt.VariantID,
			SKU:             receipt.SKU,
			AddedQty:        receipt.Quantity,
			OldStock:        variant.StockOnHand,
			NewStock:        variant.StockOnHand + receipt.Quantity,
			OldCost:         variant.UnitCost,
			IncomingAvgCost: incomingAvg,
			NewCost:         trade.BlendedUnitCost(variant.UnitCost, variant.StockOnHand, incomingAvg, receipt.Quantity),
		})
	}
	return effects, nil
}
