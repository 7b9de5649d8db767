package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository wires a repository backed by pgxpool.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO customers (id, name, email, phone, street, postal_code, city)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, name, email, phone, street, postal_code, city, created_at, updated_at`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Street,
		customer.PostalCode,
		customer.City,
	)

	created, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return created, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, phone, street, postal_code, city, created_at, updated_at
		 FROM customers WHERE id = $1`,
		id,
	)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE customers
		 SET name = $2, email = $3, phone = $4, street = $5, postal_code = $6, city = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, email, phone, street, postal_code, city, created_at, updated_at`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Street,
		customer.PostalCode,
		customer.City,
	)

	updated, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", customer.ID, ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return updated, nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var (
		customer  domain.Customer
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Street,
		&customer.PostalCode,
		&customer.City,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Customer{}, err
	}

	if createdAt.Valid {
		customer.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		customer.UpdatedAt = updatedAt.Time
	}
	return customer, nil
}
