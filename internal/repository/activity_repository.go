package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
)

const activityTable = "activities"

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

type activityRepository struct {
	client store.Client
}

// NewActivityRepository wires notes onto the table store.
func NewActivityRepository(client store.Client) ActivityRepository {
	return &activityRepository{client: client}
}

func (r *activityRepository) Create(ctx context.Context, activity domain.Activity) error {
	record := store.Record{
		"id":         activity.ID,
		"entity_id":  activity.EntityID,
		"author_id":  nullableUUID(activity.AuthorID),
		"content":    activity.Content,
		"created_at": activity.CreatedAt,
		"updated_at": activity.UpdatedAt,
	}

	if err := r.client.Insert(ctx, activityTable, record); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	row, err := store.Select(r.client, activityTable).Eq("id", id).Single(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Activity{}, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}
		return domain.Activity{}, fmt.Errorf("failed to get activity: %w", err)
	}
	return activityFromRecord(row)
}

func (r *activityRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]domain.Activity, error) {
	rows, err := store.Select(r.client, activityTable).
		Eq("entity_id", entityID).
		Order("created_at", false).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	activities := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		activity, err := activityFromRecord(row)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func (r *activityRepository) Update(ctx context.Context, activity domain.Activity) error {
	patch := store.Record{
		"content":    activity.Content,
		"updated_at": activity.UpdatedAt,
	}

	affected, err := store.Update(r.client, activityTable, patch).Eq("id", activity.ID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("activity %s: %w", activity.ID, ErrNotFound)
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := store.Delete(r.client, activityTable).Eq("id", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *activityRepository) DeleteByEntity(ctx context.Context, entityID uuid.UUID) error {
	if _, err := store.Delete(r.client, activityTable).Eq("entity_id", entityID).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete activities for entity: %w", err)
	}
	return nil
}

func activityFromRecord(row store.Record) (domain.Activity, error) {
	id, err := uuidFromAny(row["id"])
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to scan activity id: %w", err)
	}
	entityID, err := uuidFromAny(row["entity_id"])
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to scan activity entity id: %w", err)
	}
	authorID, err := uuidPtrFromAny(row["author_id"])
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to scan activity author: %w", err)
	}
	createdAt, err := timeFromAny(row["created_at"])
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to scan activity created_at: %w", err)
	}
	updatedAt, err := timeFromAny(row["updated_at"])
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to scan activity updated_at: %w", err)
	}

	return domain.Activity{
		ID:        id,
		EntityID:  entityID,
		AuthorID:  authorID,
		Content:   stringFromAny(row["content"]),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
