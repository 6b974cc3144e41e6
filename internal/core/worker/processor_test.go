package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/notifications"
)

type fakeOutbox struct {
	pending     *domain.Notification
	sent        []uuid.UUID
	rescheduled []uuid.UUID
	failed      []uuid.UUID
}

func (f *fakeOutbox) ClaimPending(ctx context.Context) (*domain.Notification, error) {
	n := f.pending
	f.pending = nil
	return n, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id uuid.UUID) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutbox) Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time) error {
	f.rescheduled = append(f.rescheduled, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id uuid.UUID) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeSender struct {
	err   error
	calls []domain.NotifOption
}

func (f *fakeSender) Send(ctx context.Context, channel domain.NotifOption, msg notifications.Message) error {
	f.calls = append(f.calls, channel)
	return f.err
}

func pending(attempts int) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New(),
		Channel:   domain.NotifySMS,
		Recipient: "+573001112233",
		Subject:   "Subscription Successful",
		Body:      "body",
		Attempts:  attempts,
	}
}

func TestProcessOneDeliversAndMarksSent(t *testing.T) {
	outbox := &fakeOutbox{pending: pending(0)}
	sender := &fakeSender{}

	processOne(context.Background(), outbox, sender)

	require.Len(t, sender.calls, 1)
	assert.Equal(t, domain.NotifySMS, sender.calls[0])
	assert.Len(t, outbox.sent, 1)
	assert.Empty(t, outbox.rescheduled)
}

func TestProcessOneEmptyQueueIsQuiet(t *testing.T) {
	outbox := &fakeOutbox{}
	sender := &fakeSender{}

	processOne(context.Background(), outbox, sender)

	assert.Empty(t, sender.calls)
	assert.Empty(t, outbox.sent)
}

func TestProcessOneReschedulesOnFailure(t *testing.T) {
	outbox := &fakeOutbox{pending: pending(1)}
	sender := &fakeSender{err: errors.New("sns is down")}

	processOne(context.Background(), outbox, sender)

	assert.Len(t, outbox.rescheduled, 1)
	assert.Empty(t, outbox.sent)
	assert.Empty(t, outbox.failed)
}

func TestProcessOneAbandonsAfterMaxAttempts(t *testing.T) {
	outbox := &fakeOutbox{pending: pending(maxAttempts - 1)}
	sender := &fakeSender{err: errors.New("sns is down")}

	processOne(context.Background(), outbox, sender)

	assert.Len(t, outbox.failed, 1)
	assert.Empty(t, outbox.rescheduled)
}
