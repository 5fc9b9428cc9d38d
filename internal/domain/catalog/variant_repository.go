package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
)

// VariantRepository defines the interface for variant persistence
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)

	// FindByIDForTenant finds a variant by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Variant, error)

	// FindByIDForTenantLocked finds a variant by ID within a tenant and
	// acquires a row-level update lock held until the surrounding
	// transaction ends. Stock-mutating sequences must use this so the
	// check-then-mutate window is serialized against other writers.
	FindByIDForTenantLocked(ctx context.Context, tenantID, id uuid.UUID) (*Variant, error)

	// FindByIDsForTenantLocked loads multiple variants under update locks,
	// acquiring them in ascending ID order to keep lock ordering
	// deterministic across concurrent transactions.
	FindByIDsForTenantLocked(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Variant, error)

	// FindBySKU finds a variant by SKU within a tenant
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Variant, error)

	// FindAllForTenant finds all variants for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Variant, error)

	// FindBelowThreshold finds variants whose available stock sits at or
	// below their configured low-stock threshold
	FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Variant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *Variant) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, variant *Variant) error

	// SaveWithLockAndEvents saves with optimistic locking and persists the
	// pending domain events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, variant *Variant, events []shared.DomainEvent) error

	// Delete deletes a variant within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts variants matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountBelowThreshold counts variants at or below their low-stock threshold
	CountBelowThreshold(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// ExistsBySKU checks if a SKU is already taken within a tenant
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
}
