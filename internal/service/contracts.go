package service

import (
	"context"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// ContractService owns contract mutations and their audit trail. It is the
// contract-vocabulary counterpart of DealService.
type ContractService struct {
	contracts  repository.ContractRepository
	activities repository.ActivityRepository
	recorder   *HistoryRecorder
	strict     *domain.TransitionGraph[domain.ContractStatus]
}

// NewContractService wires the service; a nil graph keeps status writes
// lenient.
func NewContractService(contracts repository.ContractRepository, activities repository.ActivityRepository, recorder *HistoryRecorder, strict *domain.TransitionGraph[domain.ContractStatus]) *ContractService {
	return &ContractService{
		contracts:  contracts,
		activities: activities,
		recorder:   recorder,
		strict:     strict,
	}
}

// Create persists a new contract and records the creation.
func (s *ContractService) Create(ctx context.Context, actorID *uuid.UUID, dealID uuid.UUID, title, contractType string) (domain.Contract, error) {
	contract := domain.NewContract(dealID, title, contractType)

	created, err := s.contracts.Create(ctx, contract)
	if err != nil {
		return domain.Contract{}, err
	}

	if err := s.recorder.RecordCreate(ctx, domain.EntityTypeContract, created.ID, actorID); err != nil {
		return domain.Contract{}, fmt.Errorf("contract created but audit write failed: %w", err)
	}
	return created, nil
}

// Get returns one contract.
func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (domain.Contract, error) {
	return s.contracts.GetByID(ctx, id)
}

// Update applies a full-record edit and records the tracked-field diff.
func (s *ContractService) Update(ctx context.Context, actorID *uuid.UUID, contract domain.Contract) (domain.Contract, error) {
	before, err := s.contracts.GetByID(ctx, contract.ID)
	if err != nil {
		return domain.Contract{}, err
	}

	updated, err := s.contracts.Update(ctx, contract)
	if err != nil {
		return domain.Contract{}, err
	}

	_, err = s.recorder.RecordUpdate(
		ctx,
		domain.EntityTypeContract,
		updated.ID,
		actorID,
		before.TrackedFields(),
		updated.TrackedFields(),
		domain.DefaultTrackedFields[domain.EntityTypeContract],
	)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("contract updated but audit write failed: %w", err)
	}
	return updated, nil
}

// ChangeStatus mutates the contract status and records the transition.
func (s *ContractService) ChangeStatus(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, newStatus domain.ContractStatus, comment *string) (domain.Contract, error) {
	if !domain.ContractStatuses.Contains(newStatus) {
		return domain.Contract{}, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(newStatus))
	}

	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}

	if s.strict != nil {
		if err := s.strict.Validate(contract.Status, newStatus); err != nil {
			return domain.Contract{}, err
		}
	}

	previous := string(contract.Status)
	updated, err := s.contracts.Update(ctx, contract.WithStatus(newStatus))
	if err != nil {
		return domain.Contract{}, err
	}

	if err := s.recorder.RecordStatusChange(ctx, updated.ID, &previous, string(updated.Status), actorID, comment); err != nil {
		return domain.Contract{}, fmt.Errorf("status changed but audit write failed: %w", err)
	}
	return updated, nil
}

// Delete records the deletion, removes dependents, then the contract.
func (s *ContractService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	if _, err := s.contracts.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.recorder.RecordDelete(ctx, domain.EntityTypeContract, id, actorID); err != nil {
		return fmt.Errorf("refusing to delete contract without audit entry: %w", err)
	}

	if err := s.activities.DeleteByEntity(ctx, id); err != nil {
		return err
	}

	return s.contracts.Delete(ctx, id)
}

// Transitions computes the presenter payload for the contract's current
// status.
func (s *ContractService) Transitions(ctx context.Context, id uuid.UUID) (TransitionOptions, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return TransitionOptions{}, err
	}

	phase, err := domain.ContractStatuses.PhaseOf(contract.Status)
	if err != nil {
		return TransitionOptions{}, err
	}

	options, err := domain.ContractStatuses.SamePhaseOptions(contract.Status)
	if err != nil {
		return TransitionOptions{}, err
	}

	payload := TransitionOptions{
		Current:          string(contract.Status),
		Phase:            phase,
		SamePhaseOptions: make([]string, len(options)),
	}
	for i, option := range options {
		payload.SamePhaseOptions[i] = string(option)
	}

	if shortcut, ok, err := domain.ContractStatuses.NextPhaseShortcut(contract.Status); err == nil && ok {
		target := string(shortcut)
		payload.NextPhaseShortcut = &target
	}

	return payload, nil
}
