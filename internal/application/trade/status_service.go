package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// StatusCache caches a tenant's status catalog. Implementations may be
// backed by Redis; a nil cache disables caching entirely.
type StatusCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) ([]trade.Status, error)
	Set(ctx context.Context, tenantID uuid.UUID, statuses []trade.Status) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// StatusResponse is the read model of one status catalog entry
type StatusResponse struct {
	Code      trade.OrderStatusCode `json:"code"`
	Name      string                `json:"name"`
	Color     string                `json:"color"`
	IsDefault bool                  `json:"is_default"`
}

// UpdateStatusDisplayRequest changes a status's tenant-facing presentation
type UpdateStatusDisplayRequest struct {
	Name  string
	Color string
}

// ToStatusResponses converts status records to their read models
func ToStatusResponses(statuses []trade.Status) []StatusResponse {
	items := make([]StatusResponse, len(statuses))
	for i := range statuses {
		items[i] = StatusResponse{
			Code:      statuses[i].Code,
			Name:      statuses[i].Name,
			Color:     statuses[i].Color,
			IsDefault: statuses[i].IsDefault,
		}
	}
	return items
}

// StatusService exposes the per-tenant order status catalog. The code
// set and transition table are fixed; tenants only control display
// name and color. Listings are read-through cached because the catalog
// sits on the hot path of every order mutation.
type StatusService struct {
	repo   trade.StatusRepository
	cache  StatusCache
	logger *zap.Logger
}

// NewStatusService creates a new StatusService. cache may be nil.
func NewStatusService(repo trade.StatusRepository, cache StatusCache, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// List returns the tenant's status catalog in lifecycle order. Cache
// errors degrade to a repository read, never to a request failure.
func (s *StatusService) List(ctx context.Context, tenantID uuid.UUID) ([]StatusResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Status cache read failed, falling back to repository",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		} else if cached != nil {
			return ToStatusResponses(cached), nil
		}
	}

	statuses, err := s.repo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(statuses) > 0 {
		if err := s.cache.Set(ctx, tenantID, statuses); err != nil {
			s.logger.Warn("Status cache write failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return ToStatusResponses(statuses), nil
}

// UpdateDisplay changes one status's name and color and invalidates the
// tenant's cached catalog.
func (s *StatusService) UpdateDisplay(ctx context.Context, tenantID uuid.UUID, code trade.OrderStatusCode, req UpdateStatusDisplayRequest) (*StatusResponse, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status code: %s", code))
	}

	status, err := s.repo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	if err := status.UpdateDisplay(req.Name, req.Color); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, status); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tenantID); err != nil {
			s.logger.Warn("Status cache invalidation failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	resp := StatusResponse{
		Code:      status.Code,
		Name:      status.Name,
		Color:     status.Color,
		IsDefault: status.IsDefault,
	}
	return &resp, nil
}

// SeedDefaults installs the canonical status set for a tenant. Safe to
// call repeatedly; existing rows are left untouched.
func (s *StatusService) SeedDefaults(ctx context.Context, tenantID uuid.UUID) error {
	return s.repo.SeedDefaults(ctx, tenantID)
}
