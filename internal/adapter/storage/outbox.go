package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// OutboxRepository queues notifications whose synchronous delivery failed so
// the worker can retry them.
type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, n domain.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, channel, recipient, subject, body, next_run_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		n.ID, n.Channel, n.Recipient, n.Subject, n.Body)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// ClaimPending atomically picks one due notification and marks it SENDING so
// concurrent workers never grab the same row. Returns nil when the queue is
// empty.
func (r *OutboxRepository) ClaimPending(ctx context.Context) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.QueryRow(ctx, `
		UPDATE notifications SET status = 'SENDING'
		WHERE id = (
			SELECT id FROM notifications
			WHERE status = 'PENDING' AND next_run_at <= now()
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, channel, recipient, subject, body, attempts, next_run_at, created_at`).
		Scan(&n.ID, &n.Channel, &n.Recipient, &n.Subject, &n.Body, &n.Attempts, &n.NextRunAt, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim notification: %w", err)
	}
	return &n, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET status = 'SENT' WHERE id = $1`, id)
	return err
}

func (r *OutboxRepository) Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET status = 'PENDING', attempts = attempts + 1, next_run_at = $2
		WHERE id = $1`, id, nextRun)
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET status = 'FAILED' WHERE id = $1`, id)
	return err
}
