package service

import (
	"context"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// CustomerService owns customer mutations and their audit trail.
type CustomerService struct {
	customers  repository.CustomerRepository
	activities repository.ActivityRepository
	recorder   *HistoryRecorder
}

// NewCustomerService wires the service.
func NewCustomerService(customers repository.CustomerRepository, activities repository.ActivityRepository, recorder *HistoryRecorder) *CustomerService {
	return &CustomerService{
		customers:  customers,
		activities: activities,
		recorder:   recorder,
	}
}

// Create persists a new customer and records the creation.
func (s *CustomerService) Create(ctx context.Context, actorID *uuid.UUID, name, email string) (domain.Customer, error) {
	created, err := s.customers.Create(ctx, domain.NewCustomer(name, email))
	if err != nil {
		return domain.Customer{}, err
	}

	if err := s.recorder.RecordCreate(ctx, domain.EntityTypeCustomer, created.ID, actorID); err != nil {
		return domain.Customer{}, fmt.Errorf("customer created but audit write failed: %w", err)
	}
	return created, nil
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// Update applies a full-record edit and records the tracked-field diff.
func (s *CustomerService) Update(ctx context.Context, actorID *uuid.UUID, customer domain.Customer) (domain.Customer, error) {
	before, err := s.customers.GetByID(ctx, customer.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	updated, err := s.customers.Update(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	_, err = s.recorder.RecordUpdate(
		ctx,
		domain.EntityTypeCustomer,
		updated.ID,
		actorID,
		before.TrackedFields(),
		updated.TrackedFields(),
		domain.DefaultTrackedFields[domain.EntityTypeCustomer],
	)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customer updated but audit write failed: %w", err)
	}
	return updated, nil
}

// Delete records the deletion, removes dependents, then the customer.
func (s *CustomerService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.recorder.RecordDelete(ctx, domain.EntityTypeCustomer, id, actorID); err != nil {
		return fmt.Errorf("refusing to delete customer without audit entry: %w", err)
	}

	if err := s.activities.DeleteByEntity(ctx, id); err != nil {
		return err
	}

	return s.customers.Delete(ctx, id)
}
