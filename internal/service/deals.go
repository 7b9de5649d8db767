package service

import (
	"context"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// TransitionOptions is what the UI renders around the status selector:
// the selectable statuses of the current phase and, when one exists, the
// shortcut into the next phase.
type TransitionOptions struct {
	Current           string       `json:"current"`
	Phase             domain.Phase `json:"phase"`
	SamePhaseOptions  []string     `json:"samePhaseOptions"`
	NextPhaseShortcut *string      `json:"nextPhaseShortcut,omitempty"`
}

// DealService owns deal mutations and their audit trail.
type DealService struct {
	deals      repository.DealRepository
	activities repository.ActivityRepository
	recorder   *HistoryRecorder
	strict     *domain.TransitionGraph[domain.DealStatus]
}

// NewDealService wires the service. A nil graph keeps the lenient default:
// any registered status may overwrite any other, which operators rely on
// for manual overrides.
func NewDealService(deals repository.DealRepository, activities repository.ActivityRepository, recorder *HistoryRecorder, strict *domain.TransitionGraph[domain.DealStatus]) *DealService {
	return &DealService{
		deals:      deals,
		activities: activities,
		recorder:   recorder,
		strict:     strict,
	}
}

// Create persists a new deal and records the creation.
func (s *DealService) Create(ctx context.Context, actorID *uuid.UUID, customerID uuid.UUID, title string) (domain.Deal, error) {
	deal := domain.NewDeal(customerID, title)

	created, err := s.deals.Create(ctx, deal)
	if err != nil {
		return domain.Deal{}, err
	}

	if err := s.recorder.RecordCreate(ctx, domain.EntityTypeDeal, created.ID, actorID); err != nil {
		return domain.Deal{}, fmt.Errorf("deal created but audit write failed: %w", err)
	}
	return created, nil
}

// Get returns one deal.
func (s *DealService) Get(ctx context.Context, id uuid.UUID) (domain.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

// List returns a page of deals, newest first.
func (s *DealService) List(ctx context.Context, limit, offset int) ([]domain.Deal, error) {
	return s.deals.List(ctx, limit, offset)
}

// Update applies a full-record edit, then diffs the tracked fields and
// records the change set. A no-op edit writes no audit entry.
func (s *DealService) Update(ctx context.Context, actorID *uuid.UUID, deal domain.Deal) (domain.Deal, error) {
	before, err := s.deals.GetByID(ctx, deal.ID)
	if err != nil {
		return domain.Deal{}, err
	}

	updated, err := s.deals.Update(ctx, deal)
	if err != nil {
		return domain.Deal{}, err
	}

	_, err = s.recorder.RecordUpdate(
		ctx,
		domain.EntityTypeDeal,
		updated.ID,
		actorID,
		before.TrackedFields(),
		updated.TrackedFields(),
		domain.DefaultTrackedFields[domain.EntityTypeDeal],
	)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("deal updated but audit write failed: %w", err)
	}
	return updated, nil
}

// ChangeStatus mutates the deal status and records the transition in the
// status-change stream. The new status must be registered; with a strict
// graph configured the edge must also exist.
func (s *DealService) ChangeStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, newStatus domain.DealStatus, comment *string) (domain.Deal, error) {
	if !domain.DealStatuses.Contains(newStatus) {
		return domain.Deal{}, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(newStatus))
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return domain.Deal{}, err
	}

	if s.strict != nil {
		if err := s.strict.Validate(deal.Status, newStatus); err != nil {
			return domain.Deal{}, err
		}
	}

	previous := string(deal.Status)
	updated, err := s.deals.Update(ctx, deal.WithStatus(newStatus))
	if err != nil {
		return domain.Deal{}, err
	}

	if err := s.recorder.RecordStatusChange(ctx, updated.ID, &previous, string(updated.Status), actorID, comment); err != nil {
		return domain.Deal{}, fmt.Errorf("status changed but audit write failed: %w", err)
	}
	return updated, nil
}

// Delete records the deletion first, then removes dependents, then the
// deal itself. The ordering keeps the delete entry attached to a history
// view that can still resolve the entity reference.
func (s *DealService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	if _, err := s.deals.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.recorder.RecordDelete(ctx, domain.EntityTypeDeal, id, actorID); err != nil {
		return fmt.Errorf("refusing to delete deal without audit entry: %w", err)
	}

	if err := s.activities.DeleteByEntity(ctx, id); err != nil {
		return err
	}

	return s.deals.Delete(ctx, id)
}

// Transitions computes the presenter payload for the deal's current
// status. It never enforces anything; direct status writes stay legal.
func (s *DealService) Transitions(ctx context.Context, id uuid.UUID) (TransitionOptions, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return TransitionOptions{}, err
	}
	return dealTransitionOptions(deal.Status)
}

func dealTransitionOptions(current domain.DealStatus) (TransitionOptions, error) {
	phase, err := domain.DealStatuses.PhaseOf(current)
	if err != nil {
		return TransitionOptions{}, err
	}

	options, err := domain.DealStatuses.SamePhaseOptions(current)
	if err != nil {
		return TransitionOptions{}, err
	}

	payload := TransitionOptions{
		Current:          string(current),
		Phase:            phase,
		SamePhaseOptions: make([]string, len(options)),
	}
	for i, option := range options {
		payload.SamePhaseOptions[i] = string(option)
	}

	if shortcut, ok, err := domain.DealStatuses.NextPhaseShortcut(current); err == nil && ok {
		target := string(shortcut)
		payload.NextPhaseShortcut = &target
	}

	return payload, nil
}
