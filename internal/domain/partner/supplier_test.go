package partner

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates supplier with valid input", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "Acme Textiles", "+20100000000")
		require.NoError(t, err)
		require.NotNil(t, supplier)

		assert.NotEqual(t, uuid.Nil, supplier.ID)
		assert.Equal(t, tenantID, supplier.TenantID)
		assert.Equal(t, "Acme Textiles", supplier.Name)
		assert.Equal(t, "+20100000000", supplier.Phone)

		events := supplier.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSupplierCreated, events[0].EventType())
	})

	t.Run("trims surrounding whitespace from the name", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "  Acme Textiles  ", "")
		require.NoError(t, err)
		assert.Equal(t, "Acme Textiles", supplier.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "   ", "")
		assert.Error(t, err)
		assert.Nil(t, supplier)
	})

	t.Run("fails with name over 200 characters", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, strings.Repeat("x", 201), "")
		assert.Error(t, err)
		assert.Nil(t, supplier)
	})
}

func TestSupplier_Update(t *testing.T) {
	tenantID := uuid.New()

	t.Run("updates contact information", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "Acme Textiles", "+20100000000")
		require.NoError(t, err)
		supplier.ClearDomainEvents()

		err = supplier.Update("Acme Fabrics", "+20111111111", "sales@acme.example", "12 Mill St", "net 30")
		require.NoError(t, err)

		assert.Equal(t, "Acme Fabrics", supplier.Name)
		assert.Equal(t, "+20111111111", supplier.Phone)
		assert.Equal(t, "sales@acme.example", supplier.Email)
		assert.Equal(t, "12 Mill St", supplier.Address)
		assert.Equal(t, "net 30", supplier.Notes)
		assert.Equal(t, 2, supplier.Version)

		events := supplier.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSupplierUpdated, events[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "Acme Textiles", "")
		require.NoError(t, err)

		err = supplier.Update("", "", "", "", "")
		assert.Error(t, err)
		assert.Equal(t, "Acme Textiles", supplier.Name)
	})
}
