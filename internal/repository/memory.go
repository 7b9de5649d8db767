package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
)

// In-memory entity repositories used by tests and ephemeral environments.
// The audit and activity repositories already run against any store.Client
// (including the memory client); these cover the pgx-backed entity repos.

// MemoryDealRepository implements DealRepository in memory.
type MemoryDealRepository struct {
	mu    sync.RWMutex
	deals map[uuid.UUID]domain.Deal
}

var _ DealRepository = (*MemoryDealRepository)(nil)

// NewMemoryDealRepository returns an empty in-memory deal repository.
func NewMemoryDealRepository() *MemoryDealRepository {
	return &MemoryDealRepository{deals: map[uuid.UUID]domain.Deal{}}
}

func (r *MemoryDealRepository) Create(_ context.Context, deal domain.Deal) (domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.deals[deal.ID]; exists {
		return domain.Deal{}, fmt.Errorf("deal %s already exists", deal.ID)
	}
	r.deals[deal.ID] = deal
	return deal, nil
}

func (r *MemoryDealRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deal, ok := r.deals[id]
	if !ok {
		return domain.Deal{}, fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return deal, nil
}

func (r *MemoryDealRepository) List(_ context.Context, limit int, offset int) ([]domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := make([]domain.Deal, 0, len(r.deals))
	for _, deal := range r.deals {
		deals = append(deals, deal)
	}
	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CreatedAt.After(deals[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 50
	}
	if offset >= len(deals) {
		return []domain.Deal{}, nil
	}
	end := offset + limit
	if end > len(deals) {
		end = len(deals)
	}
	return deals[offset:end], nil
}

func (r *MemoryDealRepository) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := []domain.Deal{}
	for _, deal := range r.deals {
		if deal.CustomerID == customerID {
			deals = append(deals, deal)
		}
	}
	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CreatedAt.After(deals[j].CreatedAt)
	})
	return deals, nil
}

func (r *MemoryDealRepository) Update(_ context.Context, deal domain.Deal) (domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[deal.ID]; !ok {
		return domain.Deal{}, fmt.Errorf("deal %s: %w", deal.ID, ErrNotFound)
	}
	deal.UpdatedAt = time.Now()
	r.deals[deal.ID] = deal
	return deal, nil
}

func (r *MemoryDealRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[id]; !ok {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	delete(r.deals, id)
	return nil
}

func (r *MemoryDealRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.deals)), nil
}

// MemoryContractRepository implements ContractRepository in memory.
type MemoryContractRepository struct {
	mu        sync.RWMutex
	contracts map[uuid.UUID]domain.Contract
}

var _ ContractRepository = (*MemoryContractRepository)(nil)

// NewMemoryContractRepository returns an empty in-memory contract repository.
func NewMemoryContractRepository() *MemoryContractRepository {
	return &MemoryContractRepository{contracts: map[uuid.UUID]domain.Contract{}}
}

func (r *MemoryContractRepository) Create(_ context.Context, contract domain.Contract) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.contracts[contract.ID]; exists {
		return domain.Contract{}, fmt.Errorf("contract %s already exists", contract.ID)
	}
	r.contracts[contract.ID] = contract
	return contract, nil
}

func (r *MemoryContractRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contract, ok := r.contracts[id]
	if !ok {
		return domain.Contract{}, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	return contract, nil
}

func (r *MemoryContractRepository) ListByDeal(_ context.Context, dealID uuid.UUID) ([]domain.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contracts := []domain.Contract{}
	for _, contract := range r.contracts {
		if contract.DealID == dealID {
			contracts = append(contracts, contract)
		}
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
	})
	return contracts, nil
}

func (r *MemoryContractRepository) Update(_ context.Context, contract domain.Contract) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[contract.ID]; !ok {
		return domain.Contract{}, fmt.Errorf("contract %s: %w", contract.ID, ErrNotFound)
	}
	contract.UpdatedAt = time.Now()
	r.contracts[contract.ID] = contract
	return contract, nil
}

func (r *MemoryContractRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[id]; !ok {
		return fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	delete(r.contracts, id)
	return nil
}

// MemoryCustomerRepository implements CustomerRepository in memory.
type MemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]domain.Customer
}

var _ CustomerRepository = (*MemoryCustomerRepository)(nil)

// NewMemoryCustomerRepository returns an empty in-memory customer repository.
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{customers: map[uuid.UUID]domain.Customer{}}
}

func (r *MemoryCustomerRepository) Create(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[customer.ID]; exists {
		return domain.Customer{}, fmt.Errorf("customer %s already exists", customer.ID)
	}
	r.customers[customer.ID] = customer
	return customer, nil
}

func (r *MemoryCustomerRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return customer, nil
}

func (r *MemoryCustomerRepository) Update(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", customer.ID, ErrNotFound)
	}
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = customer
	return customer, nil
}

func (r *MemoryCustomerRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	delete(r.customers, id)
	return nil
}
