package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry

	findDueErr error
	claimErr   error
	deleted    int64
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]*shared.OutboxEntry, error) {
	if r.findDueErr != nil {
		return nil, r.findDueErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*shared.OutboxEntry
	for _, e := range r.entries {
		switch {
		case e.Status == shared.OutboxStatusPending:
			due = append(due, e)
		case e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(now):
			due = append(due, e)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (r *fakeOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (r *fakeOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return r.deleted, nil
}

func (r *fakeOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	return nil, 0, nil
}

func (r *fakeOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id], nil
}

func (r *fakeOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	return nil, nil
}

func storedEntry(t *testing.T, serializer *EventSerializer, repo *fakeOutboxRepo) *shared.OutboxEntry {
	t.Helper()
	evt := reservedEvent(t)
	payload, err := serializer.Serialize(evt)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(evt.TenantID(), evt, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func newTestProcessor(repo shared.OutboxRepository, bus shared.EventBus, serializer *EventSerializer) *OutboxProcessor {
	cfg := DefaultOutboxProcessorConfig()
	cfg.BatchSize = 10
	return NewOutboxProcessor(repo, bus, serializer, cfg, zap.NewNop())
}

func TestOutboxProcessorRelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a due entry and marks it sent", func(t *testing.T) {
		serializer := NewEventSerializer()
		RegisterAllEvents(serializer)
		repo := newFakeOutboxRepo()
		entry := storedEntry(t, serializer, repo)

		bus := NewInMemoryEventBus(zap.NewNop())
		received := &recordingHandler{}
		bus.Subscribe(received)

		newTestProcessor(repo, bus, serializer).relayBatch(ctx)

		assert.Equal(t, 1, received.count())
		got, _ := repo.FindByID(ctx, entry.ID)
		assert.Equal(t, shared.OutboxStatusSent, got.Status)
		assert.NotNil(t, got.ProcessedAt)
	})

	t.Run("an undecodable payload schedules a retry", func(t *testing.T) {
		serializer := NewEventSerializer()
		RegisterAllEvents(serializer)
		repo := newFakeOutboxRepo()
		entry := storedEntry(t, serializer, repo)
		entry.Payload = []byte(`{broken`)

		newTestProcessor(repo, NewInMemoryEventBus(zap.NewNop()), serializer).relayBatch(ctx)

		got, _ := repo.FindByID(ctx, entry.ID)
		assert.Equal(t, shared.OutboxStatusFailed, got.Status)
		assert.Equal(t, 1, got.RetryCount)
		assert.NotNil(t, got.NextRetryAt)
	})

	t.Run("an unregistered event type goes dead after max attempts", func(t *testing.T) {
		registered := NewEventSerializer()
		RegisterAllEvents(registered)
		repo := newFakeOutboxRepo()
		entry := storedEntry(t, registered, repo)

		// Relay with an empty serializer, as if the event type had
		// been removed from a newer build.
		processor := newTestProcessor(repo, NewInMemoryEventBus(zap.NewNop()), NewEventSerializer())
		for i := 0; i < shared.MaxDeliveryAttempts; i++ {
			got, _ := repo.FindByID(ctx, entry.ID)
			got.NextRetryAt = nil
			got.Status = shared.OutboxStatusPending
			processor.relayBatch(ctx)
		}

		got, _ := repo.FindByID(ctx, entry.ID)
		assert.True(t, got.IsDead())
		assert.Contains(t, got.LastError, "unregistered event type")
	})

	t.Run("query errors leave entries untouched", func(t *testing.T) {
		serializer := NewEventSerializer()
		RegisterAllEvents(serializer)
		repo := newFakeOutboxRepo()
		entry := storedEntry(t, serializer, repo)
		repo.findDueErr = errors.New("connection reset")

		newTestProcessor(repo, NewInMemoryEventBus(zap.NewNop()), serializer).relayBatch(ctx)

		got, _ := repo.FindByID(ctx, entry.ID)
		assert.Equal(t, shared.OutboxStatusPending, got.Status)
	})
}

func TestOutboxProcessorStartStop(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	repo := newFakeOutboxRepo()

	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.CleanupEnabled = false
	processor := NewOutboxProcessor(repo, NewInMemoryEventBus(zap.NewNop()), serializer, cfg, zap.NewNop())

	require.NoError(t, processor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}
