// Package service orchestrates mutations against the store with the audit
// contract: mutate first, confirm success, then record. A failed mutation
// never produces a history entry, and a failed history write propagates to
// the caller without being retried.
package service

import (
	"context"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// HistoryRecorder writes the append-only audit streams. The clock is
// injected so tests control every timestamp.
type HistoryRecorder struct {
	history       repository.HistoryRepository
	statusChanges repository.StatusChangeRepository
	now           func() time.Time
}

// NewHistoryRecorder wires the recorder. A nil clock falls back to
// wall-clock time.
func NewHistoryRecorder(history repository.HistoryRepository, statusChanges repository.StatusChangeRepository, now func() time.Time) *HistoryRecorder {
	if now == nil {
		now = time.Now
	}
	return &HistoryRecorder{
		history:       history,
		statusChanges: statusChanges,
		now:           now,
	}
}

// RecordCreate writes a "created" entry with no change set.
func (r *HistoryRecorder) RecordCreate(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, actorID *uuid.UUID) error {
	return r.history.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     domain.HistoryActionCreated,
		ActorID:    actorID,
		CreatedAt:  r.now(),
	})
}

// RecordUpdate diffs the tracked fields and writes an "updated" entry
// carrying the change set. When nothing tracked changed, no entry is
// written and the returned change set is empty.
func (r *HistoryRecorder) RecordUpdate(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, actorID *uuid.UUID, before, after map[string]any, tracked []string) (domain.ChangeSet, error) {
	changes := domain.DiffFields(before, after, tracked)
	if changes.IsEmpty() {
		return changes, nil
	}

	err := r.history.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     domain.HistoryActionUpdated,
		ActorID:    actorID,
		Changes:    changes,
		CreatedAt:  r.now(),
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// RecordDelete writes a "deleted" entry. Callers invoke this before the
// entity row and its dependents are removed, so the entry stays renderable
// from the entity's history view.
func (r *HistoryRecorder) RecordDelete(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, actorID *uuid.UUID) error {
	return r.history.Record(ctx, domain.EntityHistory{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     domain.HistoryActionDeleted,
		ActorID:    actorID,
		CreatedAt:  r.now(),
	})
}

// RecordStatusChange writes one entry to the transition stream. Previous
// status is nil for the first recorded transition of an entity.
func (r *HistoryRecorder) RecordStatusChange(ctx context.Context, entityID uuid.UUID, previousStatus *string, newStatus string, actorID *uuid.UUID, comment *string) error {
	return r.statusChanges.Record(ctx, domain.StatusChangeHistory{
		ID:             uuid.New(),
		EntityID:       entityID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		ActorID:        actorID,
		Comment:        comment,
		CreatedAt:      r.now(),
	})
}
