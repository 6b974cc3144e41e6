package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/notifications"
)

const maxAttempts = 5

// Outbox is the queue side the worker drains. Implemented by
// storage.OutboxRepository.
type Outbox interface {
	ClaimPending(ctx context.Context) (*domain.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// Sender delivers a message on a channel. Implemented by
// notifications.Dispatcher.
type Sender interface {
	Send(ctx context.Context, channel domain.NotifOption, msg notifications.Message) error
}

// StartNotificationWorker drains the notification outbox in the background.
// Messages land there only when the synchronous delivery attempt failed, so
// the loop is quiet most of the time.
func StartNotificationWorker(ctx context.Context, outbox Outbox, dispatcher Sender) {
	go func() {
		slog.Info("notification worker started")
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("notification worker stopped")
				return
			case <-ticker.C:
				processOne(ctx, outbox, dispatcher)
			}
		}
	}()
}

func processOne(ctx context.Context, outbox Outbox, dispatcher Sender) {
	n, err := outbox.ClaimPending(ctx)
	if err != nil {
		slog.Error("worker: failed to claim notification", "error", err)
		return
	}
	if n == nil {
		return
	}

	msg := notifications.Message{
		Subject:   n.Subject,
		Body:      n.Body,
		Recipient: n.Recipient,
	}

	if sendErr := dispatcher.Send(ctx, n.Channel, msg); sendErr != nil {
		slog.Error("worker: delivery failed", "error", sendErr, "id", n.ID, "attempts", n.Attempts)
		if n.Attempts+1 >= maxAttempts {
			if err := outbox.MarkFailed(ctx, n.ID); err != nil {
				slog.Error("worker: failed to mark notification failed", "error", err, "id", n.ID)
			}
			slog.Error("worker: notification abandoned, max attempts reached", "id", n.ID)
			return
		}
		nextRun := time.Now().Add(time.Duration(n.Attempts*10+10) * time.Second)
		if err := outbox.Reschedule(ctx, n.ID, nextRun); err != nil {
			slog.Error("worker: failed to reschedule notification", "error", err, "id", n.ID)
		}
		return
	}

	if err := outbox.MarkSent(ctx, n.ID); err != nil {
		slog.Error("worker: failed to mark notification sent", "error", err, "id", n.ID)
		return
	}
	slog.Info("worker: notification delivered", "id", n.ID, "channel", n.Channel)
}
