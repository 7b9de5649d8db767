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

func newActivity(entityID uuid.UUID, content string, at time.Time) domain.Activity {
	author := uuid.New()
	return domain.Activity{
		ID:        uuid.New(),
		EntityID:  entityID,
		AuthorID:  &author,
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestActivityRepositoryCreateAndGet(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())
	ctx := context.Background()

	activity := newActivity(uuid.New(), "customer asked for a revised offer", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, activity))

	got, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, activity.Content, got.Content)
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, *activity.AuthorID, *got.AuthorID)
}

func TestActivityRepositoryGetMissing(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityRepositoryUpdate(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())
	ctx := context.Background()

	activity := newActivity(uuid.New(), "initial wording", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, activity))

	activity.Content = "corrected wording"
	activity.UpdatedAt = activity.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, activity))

	got, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "corrected wording", got.Content)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	missing := newActivity(uuid.New(), "x", time.Now().UTC())
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestActivityRepositoryDelete(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())
	ctx := context.Background()

	activity := newActivity(uuid.New(), "to delete", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, activity))
	require.NoError(t, repo.Delete(ctx, activity.ID))

	_, err := repo.GetByID(ctx, activity.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, activity.ID), ErrNotFound)
}

func TestActivityRepositoryDeleteByEntity(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())
	ctx := context.Background()

	entityID := uuid.New()
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newActivity(entityID, "note", now.Add(time.Duration(i)*time.Minute))))
	}
	other := newActivity(uuid.New(), "other entity", now)
	require.NoError(t, repo.Create(ctx, other))

	require.NoError(t, repo.DeleteByEntity(ctx, entityID))

	remaining, err := repo.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = repo.GetByID(ctx, other.ID)
	assert.NoError(t, err, "cascade must not touch other entities")

	// Deleting for an entity with no notes is not an error.
	assert.NoError(t, repo.DeleteByEntity(ctx, uuid.New()))
}

func TestActivityRepositoryListOrder(t *testing.T) {
	repo := NewActivityRepository(store.NewMemoryClient())
	ctx := context.Background()

	entityID := uuid.New()
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newActivity(entityID, "note", base.Add(time.Duration(i)*time.Minute))))
	}

	activities, err := repo.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].CreatedAt.After(activities[i-1].CreatedAt))
	}
}
