package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// DefaultInitialBalance is credited to every account at signup.
const DefaultInitialBalance int64 = 500_000

const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the local ledger row for a freshly registered identity.
func (r *UserRepository) CreateUser(ctx context.Context, email, phone, providerID string) (*domain.User, error) {
	u := domain.User{
		ID:          uuid.New(),
		Email:       email,
		Phone:       phone,
		Balance:     DefaultInitialBalance,
		NotifOption: domain.NotifyEmail,
		ProviderID:  providerID,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, phone, balance, notif_option, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		u.ID, u.Email, u.Phone, u.Balance, u.NotifOption, u.ProviderID).
		Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", domain.ErrEmailTaken, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UserByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+` WHERE provider_id = $1`, providerID))
}

const userSelect = `SELECT id, email, phone, balance, notif_option, provider_id, created_at FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.Balance, &u.NotifOption, &u.ProviderID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
