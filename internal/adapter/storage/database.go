package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectDB initializes the Postgres connection pool.
func ConnectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is not set")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return pool, nil
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS funds (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			min_amount BIGINT NOT NULL CHECK (min_amount > 0),
			category TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			balance BIGINT NOT NULL CHECK (balance >= 0),
			notif_option TEXT NOT NULL DEFAULT 'email',
			provider_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			fund_id BIGINT NOT NULL,
			transaction_type TEXT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_fund_idx
			ON transactions (user_id, fund_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			channel TEXT NOT NULL,
			recipient TEXT NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			attempts INT NOT NULL DEFAULT 0,
			next_run_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS idempotency_keys (
			key_id TEXT PRIMARY KEY,
			response_status INT NOT NULL,
			response_body BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeedFunds populates the catalog once, when the funds table is empty.
func SeedFunds(ctx context.Context, db *pgxpool.Pool) error {
	var count int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM funds`).Scan(&count); err != nil {
		return fmt.Errorf("count funds: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		id        int64
		name      string
		minAmount int64
		category  string
	}{
		{1, "FPV_BTG_PACTUAL_RECAUDADORA", 75000, "FPV"},
		{2, "FPV_BTG_PACTUAL_ECOPETROL", 125000, "FPV"},
		{3, "DEUDAPRIVADA", 50000, "FIC"},
		{4, "FDO-ACCIONES", 250000, "FIC"},
		{5, "FPV_BTG_PACTUAL_DINAMICA", 100000, "FPV"},
	}

	for _, f := range seed {
		_, err := db.Exec(ctx,
			`INSERT INTO funds (id, name, min_amount, category) VALUES ($1, $2, $3, $4)`,
			f.id, f.name, f.minAmount, f.category)
		if err != nil {
			return fmt.Errorf("seed fund %d: %w", f.id, err)
		}
	}
	return nil
}
