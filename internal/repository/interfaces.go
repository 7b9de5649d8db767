package repository

import (
	"context"

	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
)

// DealRepository defines the interface for deal operations.
type DealRepository interface {
	Create(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error)
	List(ctx context.Context, limit int, offset int) ([]domain.Deal, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Deal, error)
	Update(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ContractRepository defines the interface for contract operations.
type ContractRepository interface {
	Create(ctx context.Context, contract domain.Contract) (domain.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.Contract, error)
	Update(ctx context.Context, contract domain.Contract) (domain.Contract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines the interface for customer operations.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryRepository stores the append-only audit trail. Entries are never
// updated or deleted once written.
type HistoryRepository interface {
	Record(ctx context.Context, entry domain.EntityHistory) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]domain.EntityHistory, error)
}

// StatusChangeRepository stores the append-only status-transition stream,
// separate from the generic audit trail.
type StatusChangeRepository interface {
	Record(ctx context.Context, change domain.StatusChangeHistory) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]domain.StatusChangeHistory, error)
}

// ActivityRepository stores free-form notes. Mutations go through the
// service layer, which enforces the edit window before calling Update or
// Delete.
type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, activity domain.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEntity(ctx context.Context, entityID uuid.UUID) error
}
