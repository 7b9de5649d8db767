package domain

import (
	"errors"
	"testing"
)

func TestDefaultDealGraphSamePhase(t *testing.T) {
	graph := DefaultDealTransitionGraph()

	if err := graph.Validate(DealStatusAppointmentAcquired, DealStatusOfferCreated); err != nil {
		t.Errorf("same-phase move rejected: %v", err)
	}
	if err := graph.Validate(DealStatusOfferDeclined, DealStatusAppointmentScheduled); err != nil {
		t.Errorf("backwards same-phase move rejected: %v", err)
	}
}

func TestDefaultDealGraphShortcut(t *testing.T) {
	graph := DefaultDealTransitionGraph()

	if err := graph.Validate(DealStatusAppointmentAcquired, DealStatusContractTypeSelection); err != nil {
		t.Errorf("next-phase shortcut rejected: %v", err)
	}
	if err := graph.Validate(DealStatusContractSigned, DealStatusInstallationScheduled); err != nil {
		t.Errorf("contract -> installation shortcut rejected: %v", err)
	}
}

func TestDefaultDealGraphRejectsJumps(t *testing.T) {
	graph := DefaultDealTransitionGraph()

	err := graph.Validate(DealStatusAppointmentAcquired, DealStatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("phase jump must fail with ErrInvalidTransition, got %v", err)
	}

	err = graph.Validate(DealStatusAppointmentAcquired, DealStatusContractSigned)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("shortcut must only target the first status of the next phase, got %v", err)
	}
}

func TestGraphSelfTransition(t *testing.T) {
	graph := DefaultDealTransitionGraph()
	if err := graph.Validate(DealStatusOfferCreated, DealStatusOfferCreated); err != nil {
		t.Errorf("self transition must always pass, got %v", err)
	}
}

func TestGraphUnknownEndpoints(t *testing.T) {
	graph := DefaultDealTransitionGraph()

	if err := graph.Validate(DealStatus("bogus"), DealStatusOfferCreated); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown source must fail with ErrUnknownStatus, got %v", err)
	}
	if err := graph.Validate(DealStatusOfferCreated, DealStatus("bogus")); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown target must fail with ErrUnknownStatus, got %v", err)
	}
}

func TestDefaultContractGraph(t *testing.T) {
	graph := DefaultContractTransitionGraph()

	if err := graph.Validate(ContractStatusIntakeReceived, ContractStatusDrafted); err != nil {
		t.Errorf("contract shortcut rejected: %v", err)
	}
	if err := graph.Validate(ContractStatusIntakeReceived, ContractStatusClosed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("contract phase jump must be rejected, got %v", err)
	}
}
