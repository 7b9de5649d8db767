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

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository wires a repository backed by pgxpool.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) Create(ctx context.Context, contract domain.Contract) (domain.Contract, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO contracts (id, deal_id, title, status, contract_type, monthly_rate, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, deal_id, title, status, contract_type, monthly_rate, notes, created_at, updated_at`,
		contract.ID,
		contract.DealID,
		contract.Title,
		string(contract.Status),
		contract.ContractType,
		contract.MonthlyRate,
		contract.Notes,
	)

	created, err := scanContract(row)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("failed to create contract: %w", err)
	}
	return created, nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Contract, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, deal_id, title, status, contract_type, monthly_rate, notes, created_at, updated_at
		 FROM contracts WHERE id = $1`,
		id,
	)

	contract, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contract{}, fmt.Errorf("contract %s: %w", id, ErrNotFound)
		}
		return domain.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

func (r *contractRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.Contract, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, deal_id, title, status, contract_type, monthly_rate, notes, created_at, updated_at
		 FROM contracts
		 WHERE deal_id = $1
		 ORDER BY created_at DESC`,
		dealID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts by deal: %w", err)
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contracts: %w", err)
	}
	return contracts, nil
}

func (r *contractRepository) Update(ctx context.Context, contract domain.Contract) (domain.Contract, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE contracts
		 SET title = $2, status = $3, contract_type = $4, monthly_rate = $5, notes = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING id, deal_id, title, status, contract_type, monthly_rate, notes, created_at, updated_at`,
		contract.ID,
		contract.Title,
		string(contract.Status),
		contract.ContractType,
		contract.MonthlyRate,
		contract.Notes,
	)

	updated, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contract{}, fmt.Errorf("contract %s: %w", contract.ID, ErrNotFound)
		}
		return domain.Contract{}, fmt.Errorf("failed to update contract: %w", err)
	}
	return updated, nil
}

func (r *contractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanContract(row pgx.Row) (domain.Contract, error) {
	var (
		contract    domain.Contract
		status      string
		monthlyRate pgtype.Float8
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&contract.ID,
		&contract.DealID,
		&contract.Title,
		&status,
		&contract.ContractType,
		&monthlyRate,
		&contract.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Contract{}, err
	}

	contract.Status = domain.ContractStatus(status)
	if monthlyRate.Valid {
		value := monthlyRate.Float64
		contract.MonthlyRate = &value
	}
	if createdAt.Valid {
		contract.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		contract.UpdatedAt = updatedAt.Time
	}
	return contract, nil
}
