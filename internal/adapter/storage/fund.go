package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

type FundRepository struct {
	db *pgxpool.Pool
}

func NewFundRepository(db *pgxpool.Pool) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) Fund(ctx context.Context, id int64) (*domain.Fund, error) {
	var f domain.Fund
	err := r.db.QueryRow(ctx,
		`SELECT id, name, min_amount, category FROM funds WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.MinAmount, &f.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query fund: %w", err)
	}
	return &f, nil
}

func (r *FundRepository) Funds(ctx context.Context) ([]domain.Fund, error) {
	return r.list(ctx, `SELECT id, name, min_amount, category FROM funds ORDER BY id`)
}

func (r *FundRepository) FundsByCategory(ctx context.Context, category domain.FundCategory) ([]domain.Fund, error) {
	return r.list(ctx,
		`SELECT id, name, min_amount, category FROM funds WHERE category = $1 ORDER BY id`,
		string(category))
}

func (r *FundRepository) list(ctx context.Context, query string, args ...any) ([]domain.Fund, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query funds: %w", err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		var f domain.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.MinAmount, &f.Category); err != nil {
			return nil, fmt.Errorf("scan fund: %w", err)
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}
