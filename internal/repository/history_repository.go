package repository

import (
	"context"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
)

const historyTable = "entity_history"

type historyRepository struct {
	client store.Client
}

// NewHistoryRepository wires the audit trail onto the table store.
func NewHistoryRepository(client store.Client) HistoryRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) Record(ctx context.Context, entry domain.EntityHistory) error {
	changes, err := changeSetValue(entry.Changes)
	if err != nil {
		return err
	}

	record := store.Record{
		"id":          entry.ID,
		"entity_type": string(entry.EntityType),
		"entity_id":   entry.EntityID,
		"action":      string(entry.Action),
		"actor_id":    nullableUUID(entry.ActorID),
		"changes":     changes,
		"comment":     nullableString(entry.Comment),
		"created_at":  entry.CreatedAt,
	}

	if err := r.client.Insert(ctx, historyTable, record); err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

func (r *historyRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]domain.EntityHistory, error) {
	rows, err := store.Select(r.client, historyTable).
		Eq("entity_type", string(entityType)).
		Eq("entity_id", entityID).
		Order("created_at", false).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}

	entries := make([]domain.EntityHistory, 0, len(rows))
	for _, row := range rows {
		entry, err := historyFromRecord(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func historyFromRecord(row store.Record) (domain.EntityHistory, error) {
	id, err := uuidFromAny(row["id"])
	if err != nil {
		return domain.EntityHistory{}, fmt.Errorf("failed to scan history id: %w", err)
	}
	entityID, err := uuidFromAny(row["entity_id"])
	if err != nil {
		return domain.EntityHistory{}, fmt.Errorf("failed to scan history entity id: %w", err)
	}
	actorID, err := uuidPtrFromAny(row["actor_id"])
	if err != nil {
		return domain.EntityHistory{}, fmt.Errorf("failed to scan history actor: %w", err)
	}
	changes, err := changeSetFromAny(row["changes"])
	if err != nil {
		return domain.EntityHistory{}, err
	}
	createdAt, err := timeFromAny(row["created_at"])
	if err != nil {
		return domain.EntityHistory{}, fmt.Errorf("failed to scan history timestamp: %w", err)
	}

	return domain.EntityHistory{
		ID:         id,
		EntityType: domain.EntityType(stringFromAny(row["entity_type"])),
		EntityID:   entityID,
		Action:     domain.HistoryAction(stringFromAny(row["action"])),
		ActorID:    actorID,
		Changes:    changes,
		Comment:    stringPtrFromAny(row["comment"]),
		CreatedAt:  createdAt,
	}, nil
}
