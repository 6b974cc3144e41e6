package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/service"
)

// LedgerRepository implements service.Store on Postgres. The workflow's
// atomicity and race guarantees hang on two things here: both writes share
// one transaction, and the user row is locked FOR UPDATE so concurrent runs
// for the same user serialize before reading the fund history.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Begin(ctx context.Context) (service.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &ledgerTx{tx: tx}, nil
}

func (r *LedgerRepository) UserByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+` WHERE provider_id = $1`, providerID))
}

func (r *LedgerRepository) TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, fund_id, transaction_type, amount, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) UserByProviderIDForUpdate(ctx context.Context, providerID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx, userSelect+` WHERE provider_id = $1 FOR UPDATE`, providerID))
}

func (t *ledgerTx) Fund(ctx context.Context, fundID int64) (*domain.Fund, error) {
	var f domain.Fund
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, min_amount, category FROM funds WHERE id = $1`, fundID).
		Scan(&f.ID, &f.Name, &f.MinAmount, &f.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query fund: %w", err)
	}
	return &f, nil
}

func (t *ledgerTx) FundHistory(ctx context.Context, userID uuid.UUID, fundID int64) ([]domain.Transaction, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, user_id, fund_id, transaction_type, amount, created_at
		FROM transactions
		WHERE user_id = $1 AND fund_id = $2
		ORDER BY created_at, id`, userID, fundID)
	if err != nil {
		return nil, fmt.Errorf("query fund history: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, rec *domain.Transaction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, fund_id, transaction_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.FundID, rec.Type, rec.Amount, rec.Timestamp)
	return err
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	records := []domain.Transaction{}
	for rows.Next() {
		var rec domain.Transaction
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.FundID, &rec.Type, &rec.Amount, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
