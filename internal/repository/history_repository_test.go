package repository

import (
	"context"
	"testing"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepositoryRoundTrip(t *testing.T) {
	repo := NewHistoryRepository(store.NewMemoryClient())
	ctx := context.Background()

	entityID := uuid.New()
	actorID := uuid.New()
	comment := "price renegotiated"
	entry := domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeDeal,
		EntityID:   entityID,
		Action:     domain.HistoryActionUpdated,
		ActorID:    &actorID,
		Changes: domain.ChangeSet{
			"offer_amount": {Old: 12500.0, New: 13000.0},
		},
		Comment:   &comment,
		CreatedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Record(ctx, entry))

	entries, err := repo.ListByEntity(ctx, domain.EntityTypeDeal, entityID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, domain.HistoryActionUpdated, got.Action)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, actorID, *got.ActorID)
	require.NotNil(t, got.Comment)
	assert.Equal(t, comment, *got.Comment)
	require.Contains(t, got.Changes, "offer_amount")
	assert.Equal(t, 13000.0, got.Changes["offer_amount"].New)
}

func TestHistoryRepositoryScopesByEntity(t *testing.T) {
	repo := NewHistoryRepository(store.NewMemoryClient())
	ctx := context.Background()

	dealID := uuid.New()
	require.NoError(t, repo.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeDeal,
		EntityID:   dealID,
		Action:     domain.HistoryActionCreated,
		CreatedAt:  time.Now().UTC(),
	}))
	require.NoError(t, repo.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeContract,
		EntityID:   dealID,
		Action:     domain.HistoryActionCreated,
		CreatedAt:  time.Now().UTC(),
	}))
	require.NoError(t, repo.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeDeal,
		EntityID:   uuid.New(),
		Action:     domain.HistoryActionCreated,
		CreatedAt:  time.Now().UTC(),
	}))

	entries, err := repo.ListByEntity(ctx, domain.EntityTypeDeal, dealID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "same id under another entity type must not leak in")
}

func TestHistoryRepositoryOrdersNewestFirst(t *testing.T) {
	repo := NewHistoryRepository(store.NewMemoryClient())
	ctx := context.Background()

	entityID := uuid.New()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, domain.EntityHistory{
			ID:         uuid.New(),
			EntityType: domain.EntityTypeDeal,
			EntityID:   entityID,
			Action:     domain.HistoryActionUpdated,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.ListByEntity(ctx, domain.EntityTypeDeal, entityID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt), "entries must be newest first")
	}
}

func TestStatusChangeRepositoryRoundTrip(t *testing.T) {
	repo := NewStatusChangeRepository(store.NewMemoryClient())
	ctx := context.Background()

	entityID := uuid.New()
	previous := "appointment_acquired"
	require.NoError(t, repo.Record(ctx, domain.StatusChangeHistory{
		ID:             uuid.New(),
		EntityID:       entityID,
		PreviousStatus: &previous,
		NewStatus:      "appointment_scheduled",
		CreatedAt:      time.Now().UTC(),
	}))
	require.NoError(t, repo.Record(ctx, domain.StatusChangeHistory{
		ID:        uuid.New(),
		EntityID:  entityID,
		NewStatus: "appointment_acquired",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}))

	changes, err := repo.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "appointment_scheduled", changes[0].NewStatus)
	require.NotNil(t, changes[0].PreviousStatus)
	assert.Equal(t, previous, *changes[0].PreviousStatus)
	assert.Nil(t, changes[1].PreviousStatus, "initial status has no previous value")
}
