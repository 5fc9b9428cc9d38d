package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPurchaseAuditRepository creates a GormPurchaseAuditRepository with a mocked SQL connection
func newMockPurchaseAuditRepository(t *testing.T) (*GormPurchaseAuditRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPurchaseAuditRepository(gormDB), mock, mockDB
}

func auditColumns() []string {
	return []string{
		"id", "tenant_id", "invoice_id", "action", "changes", "description", "actor", "created_at",
	}
}

func TestGormPurchaseAuditRepository_Append(t *testing.T) {
	t.Run("inserts audit entry", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseAuditRepository(t)
		defer mockDB.Close()

		entry, err := trade.NewPurchaseAuditEntry(uuid.New(), uuid.New(), trade.AuditActionCreated, nil, "Invoice created", "tester")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "purchase_audit_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Append(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseAuditRepository_FindLatestByAction(t *testing.T) {
	t.Run("returns the newest entry for the action", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseAuditRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()
		entryID := uuid.New()

		rows := sqlmock.NewRows(auditColumns()).
			AddRow(entryID, tenantID, invoiceID, string(trade.AuditActionPriceUpdated), []byte(`[]`), "Costs recalculated", "tester", time.Now())

		mock.ExpectQuery(`SELECT \* FROM "purchase_audit_entries" WHERE tenant_id = \$1 AND invoice_id = \$2 AND action = \$3 ORDER BY created_at DESC, id DESC`).
			WithArgs(tenantID, invoiceID, trade.AuditActionPriceUpdated, 1).
			WillReturnRows(rows)

		entry, err := repo.FindLatestByAction(context.Background(), tenantID, invoiceID, trade.AuditActionPriceUpdated)

		assert.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, entryID, entry.ID)
		assert.Equal(t, trade.AuditActionPriceUpdated, entry.Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no entry exists", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseAuditRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "purchase_audit_entries"`).
			WillReturnRows(sqlmock.NewRows(auditColumns()))

		entry, err := repo.FindLatestByAction(context.Background(), uuid.New(), uuid.New(), trade.AuditActionPriceUpdated)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, entry)
	})
}

func TestGormPurchaseAuditRepository_CountByInvoice(t *testing.T) {
	t.Run("counts entries for an invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseAuditRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_audit_entries" WHERE tenant_id = \$1 AND invoice_id = \$2`).
			WithArgs(tenantID, invoiceID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountByInvoice(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}
