package service

import (
	"context"
	"testing"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderFixture struct {
	recorder      *HistoryRecorder
	history       repository.HistoryRepository
	statusChanges repository.StatusChangeRepository
}

func newRecorderFixture(now time.Time) recorderFixture {
	client := store.NewMemoryClient()
	history := repository.NewHistoryRepository(client)
	statusChanges := repository.NewStatusChangeRepository(client)
	return recorderFixture{
		recorder:      NewHistoryRecorder(history, statusChanges, func() time.Time { return now }),
		history:       history,
		statusChanges: statusChanges,
	}
}

func TestRecordUpdateSkipsEmptyDiff(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f := newRecorderFixture(now)
	ctx := context.Background()
	entityID := uuid.New()

	record := map[string]any{"title": "same", "status": "appointment_acquired"}
	changes, err := f.recorder.RecordUpdate(ctx, domain.EntityTypeDeal, entityID, nil, record, record, []string{"title", "status"})
	require.NoError(t, err)
	assert.True(t, changes.IsEmpty())

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, entityID)
	require.NoError(t, err)
	assert.Empty(t, entries, "a no-op edit must not write an audit entry")
}

func TestRecordUpdateWritesChangeSet(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f := newRecorderFixture(now)
	ctx := context.Background()
	entityID := uuid.New()
	actorID := uuid.New()

	before := map[string]any{"title": "old title", "status": "appointment_acquired"}
	after := map[string]any{"title": "new title", "status": "appointment_acquired"}

	changes, err := f.recorder.RecordUpdate(ctx, domain.EntityTypeDeal, entityID, &actorID, before, after, []string{"title", "status"})
	require.NoError(t, err)
	require.Len(t, changes, 1)

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, entityID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, domain.HistoryActionUpdated, entry.Action)
	assert.True(t, entry.CreatedAt.Equal(now))
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actorID, *entry.ActorID)
	require.Contains(t, entry.Changes, "title")
	assert.Equal(t, "old title", entry.Changes["title"].Old)
	assert.Equal(t, "new title", entry.Changes["title"].New)
}

func TestRecordCreateAndDelete(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f := newRecorderFixture(now)
	ctx := context.Background()
	entityID := uuid.New()

	require.NoError(t, f.recorder.RecordCreate(ctx, domain.EntityTypeCustomer, entityID, nil))
	require.NoError(t, f.recorder.RecordDelete(ctx, domain.EntityTypeCustomer, entityID, nil))

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeCustomer, entityID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []domain.HistoryAction{entries[0].Action, entries[1].Action}
	assert.Contains(t, actions, domain.HistoryActionCreated)
	assert.Contains(t, actions, domain.HistoryActionDeleted)
	for _, entry := range entries {
		assert.Nil(t, entry.ActorID, "system writes carry no actor")
		assert.Empty(t, entry.Changes)
	}
}

func TestRecordStatusChange(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f := newRecorderFixture(now)
	ctx := context.Background()
	entityID := uuid.New()

	previous := "appointment_acquired"
	comment := "customer signed on site"
	require.NoError(t, f.recorder.RecordStatusChange(ctx, entityID, &previous, "contract_type_selection", nil, &comment))

	changes, err := f.statusChanges.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "contract_type_selection", changes[0].NewStatus)
	require.NotNil(t, changes[0].PreviousStatus)
	assert.Equal(t, previous, *changes[0].PreviousStatus)
	require.NotNil(t, changes[0].Comment)
	assert.Equal(t, comment, *changes[0].Comment)
}
