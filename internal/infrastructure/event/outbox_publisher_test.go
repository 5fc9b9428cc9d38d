package event

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxPublisherSaveEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	publisher := NewOutboxPublisher(serializer)

	t.Run("writes events through the given transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := publisher.SaveEvents(context.Background(), db, reservedEvent(t))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no events touches nothing", func(t *testing.T) {
		db, mock := setupMockDB(t)

		require.NoError(t, publisher.SaveEvents(context.Background(), db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a transaction handle it cannot use", func(t *testing.T) {
		err := publisher.SaveEvents(context.Background(), "not a gorm tx", reservedEvent(t))
		assert.ErrorContains(t, err, "*gorm.DB")
	})
}
