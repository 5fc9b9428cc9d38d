package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/oms/backend/internal/domain/shared"
)

// SupplierRepository persists the supplier directory. Every read and
// write is tenant scoped; there is no cross-tenant access path.
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsByName backs the unique-name rule enforced at create and rename.
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
