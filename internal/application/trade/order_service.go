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

// OrderService drives customer orders through their lifecycle. Every
// stock-mutating operation runs inside a single transaction scope so the
// order, its history and the variant ledger always move together.
type OrderService struct {
	scope TransactionScope
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope) *OrderService {
	return &OrderService{scope: scope}
}

// Create creates an order, reserving stock for every line. The whole
// call is all-or-nothing: if any line's variant is missing or lacks
// available stock, no reservation survives.
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order requires at least one line")
	}

	var response OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		defaultStatus, err := s.defaultStatus(ctx, repos, tenantID)
		if err != nil {
			return err
		}

		orderNumber, err := repos.OrderRepo().NextOrderNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		order, err := trade.NewOrder(tenantID, orderNumber, req.CustomerName, req.ShippingCost, req.Discount)
		if err != nil {
			return err
		}
		order.SetCustomerContact(req.CustomerPhone, req.ShippingAddress, req.ShippingCity, req.Notes)

		variants, err := s.lockRequestedVariants(ctx, repos, tenantID, variantIDsOfOrderLines(req.Lines))
		if err != nil {
			return err
		}

		for _, line := range req.Lines {
			variant, ok := variants[line.VariantID]
			if !ok {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Variant %s not found", line.VariantID))
			}
			if _, err := order.AddLine(variant.ID, variant.SKU, variant.Name, line.Quantity, line.UnitPrice, variant.CostOrZero()); err != nil {
				return err
			}
			if err := variant.Reserve(line.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		if err := s.saveVariants(ctx, repos, variants); err != nil {
			return err
		}

		entry := trade.NewOrderHistoryEntry(tenantID, order.ID, defaultStatus.Code, defaultStatus.Code, req.Actor, "Order created")
		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		if err := s.flushEvents(ctx, repos, order, variants); err != nil {
			return err
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ChangeStatus moves an order along one edge of the status graph and
// applies the edge's stock side effect. Requesting the current status is
// a no-op and returns the order unchanged.
func (s *OrderService) ChangeStatus(ctx context.Context, tenantID, orderID uuid.UUID, req ChangeOrderStatusRequest) (*OrderResponse, error) {
	var response OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		target, err := repos.StatusRepo().FindByCode(ctx, tenantID, req.StatusCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Unknown status code %s", req.StatusCode))
			}
			return err
		}

		if order.StatusCode == target.Code {
			response = ToOrderResponse(order)
			return nil
		}

		from := order.StatusCode
		if err := order.TransitionTo(target.Code); err != nil {
			return err
		}

		variants := map[uuid.UUID]*catalog.Variant{}
		switch {
		case target.Code.ReleasesReservation():
			variants, err = s.forEachLineVariant(ctx, repos, order, func(v *catalog.Variant, qty int64) error {
				return v.Release(qty)
			})
			if err != nil {
				return err
			}
		case target.Code == trade.OrderStatusDelivered:
			variants, err = s.forEachLineVariant(ctx, repos, order, func(v *catalog.Variant, qty int64) error {
				return v.Fulfil(qty)
			})
			if err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		entry := trade.NewOrderHistoryEntry(tenantID, order.ID, from, target.Code, req.Actor, req.Note)
		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		if err := s.flushEvents(ctx, repos, order, variants); err != nil {
			return err
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete hard-deletes an order. Only orders that never permanently
// affected stock qualify; a NEW order's reservations are handed back
// first.
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID, actor string) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		if !order.CanDelete() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Order %s cannot be deleted in status %s", order.OrderNumber, order.StatusCode))
		}

		if order.HoldsReservation() {
			if _, err := s.forEachLineVariant(ctx, repos, order, func(v *catalog.Variant, qty int64) error {
				return v.Release(qty)
			}); err != nil {
				return err
			}
		}

		if err := repos.HistoryRepo().DeleteByOrder(ctx, tenantID, order.ID); err != nil {
			return err
		}
		return repos.OrderRepo().DeleteForTenant(ctx, tenantID, order.ID)
	})
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	var response OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
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
	if filter.StatusCode != nil {
		domainFilter.Filters["status_code"] = string(*filter.StatusCode)
	}

	var items []OrderListItemResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.OrderRepo().CountForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		items = ToOrderListItemResponses(orders)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// History returns an order's status history, oldest first
func (s *OrderService) History(ctx context.Context, tenantID, orderID uuid.UUID) ([]OrderHistoryResponse, error) {
	var items []OrderHistoryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID); err != nil {
			return err
		}
		entries, err := repos.HistoryRepo().FindByOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		items = ToOrderHistoryResponses(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// defaultStatus returns the tenant's default status, seeding the status
// catalog on first contact with a fresh tenant.
func (s *OrderService) defaultStatus(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID) (*trade.Status, error) {
	status, err := repos.StatusRepo().FindDefault(ctx, tenantID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err := repos.StatusRepo().SeedDefaults(ctx, tenantID); err != nil {
		return nil, err
	}
	return repos.StatusRepo().FindDefault(ctx, tenantID)
}

// lockRequestedVariants loads the distinct variants named by the request
// under row update locks, in ascending ID order.
func (s *OrderService) lockRequestedVariants(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Variant, error) {
	variants, err := repos.VariantRepo().FindByIDsForTenantLocked(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Variant, len(variants))
	for idx := range variants {
		byID[variants[idx].ID] = &variants[idx]
	}
	return byID, nil
}

// forEachLineVariant loads the order's variants under update locks,
// applies fn to each line's quantity and persists the result.
func (s *OrderService) forEachLineVariant(ctx context.Context, repos TransactionalRepositories, order *trade.Order, fn func(v *catalog.Variant, qty int64) error) (map[uuid.UUID]*catalog.Variant, error) {
	ids := make([]uuid.UUID, 0, len(order.Lines))
	seen := make(map[uuid.UUID]bool, len(order.Lines))
	for _, line := range order.Lines {
		if !seen[line.VariantID] {
			seen[line.VariantID] = true
			ids = append(ids, line.VariantID)
		}
	}

	variants, err := s.lockRequestedVariants(ctx, repos, order.TenantID, ids)
	if err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		variant, ok := variants[line.VariantID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Variant %s not found for order line", line.SKU))
		}
		if err := fn(variant, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.saveVariants(ctx, repos, variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// saveVariants persists mutated variants in deterministic order
func (s *OrderService) saveVariants(ctx context.Context, repos TransactionalRepositories, variants map[uuid.UUID]*catalog.Variant) error {
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

// flushEvents drains the order's and variants' pending domain events into
// the outbox within the current transaction.
func (s *OrderService) flushEvents(ctx context.Context, repos TransactionalRepositories, order *trade.Order, variants map[uuid.UUID]*catalog.Variant) error {
	events := order.GetDomainEvents()
	for _, variant := range variants {
		events = append(events, variant.GetDomainEvents()...)
	}
	if err := repos.SaveEvents(ctx, events...); err != nil {
		return err
	}
	order.ClearDomainEvents()
	for _, variant := range variants {
		variant.ClearDomainEvents()
	}
	return nil
}

func variantIDsOfOrderLines(lines []CreateOrderLineInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.VariantID] {
			seen[line.VariantID] = true
			ids = append(ids, line.VariantID)
		}
	}
	return ids
}
