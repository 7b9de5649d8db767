package repository

import (
	"context"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
)

const statusChangeTable = "status_changes"

type statusChangeRepository struct {
	client store.Client
}

// NewStatusChangeRepository wires the transition stream onto the table store.
func NewStatusChangeRepository(client store.Client) StatusChangeRepository {
	return &statusChangeRepository{client: client}
}

func (r *statusChangeRepository) Record(ctx context.Context, change domain.StatusChangeHistory) error {
	record := store.Record{
		"id":              change.ID,
		"entity_id":       change.EntityID,
		"previous_status": nullableString(change.PreviousStatus),
		"new_status":      change.NewStatus,
		"actor_id":        nullableUUID(change.ActorID),
		"comment":         nullableString(change.Comment),
		"created_at":      change.CreatedAt,
	}

	if err := r.client.Insert(ctx, statusChangeTable, record); err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	return nil
}

func (r *statusChangeRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]domain.StatusChangeHistory, error) {
	rows, err := store.Select(r.client, statusChangeTable).
		Eq("entity_id", entityID).
		Order("created_at", false).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}

	changes := make([]domain.StatusChangeHistory, 0, len(rows))
	for _, row := range rows {
		change, err := statusChangeFromRecord(row)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func statusChangeFromRecord(row store.Record) (domain.StatusChangeHistory, error) {
	id, err := uuidFromAny(row["id"])
	if err != nil {
		return domain.StatusChangeHistory{}, fmt.Errorf("failed to scan status change id: %w", err)
	}
	entityID, err := uuidFromAny(row["entity_id"])
	if err != nil {
		return domain.StatusChangeHistory{}, fmt.Errorf("failed to scan status change entity id: %w", err)
	}
	actorID, err := uuidPtrFromAny(row["actor_id"])
	if err != nil {
		return domain.StatusChangeHistory{}, fmt.Errorf("failed to scan status change actor: %w", err)
	}
	createdAt, err := timeFromAny(row["created_at"])
	if err != nil {
		return domain.StatusChangeHistory{}, fmt.Errorf("failed to scan status change timestamp: %w", err)
	}

	return domain.StatusChangeHistory{
		ID:             id,
		EntityID:       entityID,
		PreviousStatus: stringPtrFromAny(row["previous_status"]),
		NewStatus:      stringFromAny(row["new_status"]),
		ActorID:        actorID,
		Comment:        stringPtrFromAny(row["comment"]),
		CreatedAt:      createdAt,
	}, nil
}
