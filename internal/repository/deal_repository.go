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

type dealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository wires a repository backed by pgxpool.
func NewDealRepository(pool *pgxpool.Pool) DealRepository {
	return &dealRepository{pool: pool}
}

func (r *dealRepository) Create(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO deals (id, customer_id, title, status, offer_amount, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, customer_id, title, status, offer_amount, notes, created_at, updated_at`,
		deal.ID,
		deal.CustomerID,
		deal.Title,
		string(deal.Status),
		deal.OfferAmount,
		deal.Notes,
	)

	created, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return created, nil
}

func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, customer_id, title, status, offer_amount, notes, created_at, updated_at
		 FROM deals WHERE id = $1`,
		id,
	)

	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, fmt.Errorf("deal %s: %w", id, ErrNotFound)
		}
		return domain.Deal{}, fmt.Errorf("failed to get deal: %w", err)
	}
	return deal, nil
}

func (r *dealRepository) List(ctx context.Context, limit int, offset int) ([]domain.Deal, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, customer_id, title, status, offer_amount, notes, created_at, updated_at
		 FROM deals
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

func (r *dealRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Deal, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, customer_id, title, status, offer_amount, notes, created_at, updated_at
		 FROM deals
		 WHERE customer_id = $1
		 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals by customer: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

func (r *dealRepository) Update(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE deals
		 SET customer_id = $2, title = $3, status = $4, offer_amount = $5, notes = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING id, customer_id, title, status, offer_amount, notes, created_at, updated_at`,
		deal.ID,
		deal.CustomerID,
		deal.Title,
		string(deal.Status),
		deal.OfferAmount,
		deal.Notes,
	)

	updated, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, fmt.Errorf("deal %s: %w", deal.ID, ErrNotFound)
		}
		return domain.Deal{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return updated, nil
}

func (r *dealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *dealRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM deals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deals: %w", err)
	}
	return count, nil
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var (
		deal        domain.Deal
		status      string
		offerAmount pgtype.Float8
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&deal.ID,
		&deal.CustomerID,
		&deal.Title,
		&status,
		&offerAmount,
		&deal.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Deal{}, err
	}

	deal.Status = domain.DealStatus(status)
	if offerAmount.Valid {
		value := offerAmount.Float64
		deal.OfferAmount = &value
	}
	if createdAt.Valid {
		deal.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		deal.UpdatedAt = updatedAt.Time
	}
	return deal, nil
}

func collectDeals(rows pgx.Rows) ([]domain.Deal, error) {
	deals := []domain.Deal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}
	return deals, nil
}
