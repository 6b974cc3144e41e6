package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

type fakeNotifier struct {
	sent []Message
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeQueue struct {
	queued []domain.Notification
}

func (f *fakeQueue) Enqueue(ctx context.Context, n domain.Notification) error {
	f.queued = append(f.queued, n)
	return nil
}

func fixture() (*fakeNotifier, *fakeNotifier, *fakeQueue, *Dispatcher) {
	email := &fakeNotifier{}
	sms := &fakeNotifier{}
	queue := &fakeQueue{}
	return email, sms, queue, NewDispatcher(email, sms, queue, true)
}

func user(opt domain.NotifOption) *domain.User {
	return &domain.User{
		ID:          uuid.New(),
		Email:       "ana@example.com",
		Phone:       "+573001112233",
		NotifOption: opt,
	}
}

var fund = &domain.Fund{ID: 1, Name: "FPV_BTG_PACTUAL_RECAUDADORA", MinAmount: 75000, Category: domain.CategoryFPV}

func subscribeRec() *domain.Transaction {
	return &domain.Transaction{ID: uuid.New(), FundID: 1, Type: domain.TypeSubscribe, Amount: 75000}
}

func cancelRec() *domain.Transaction {
	return &domain.Transaction{ID: uuid.New(), FundID: 1, Type: domain.TypeCancel, Amount: 75000}
}

func TestNotifyRoutesToEmail(t *testing.T) {
	email, sms, _, d := fixture()

	d.Notify(context.Background(), user(domain.NotifyEmail), fund, subscribeRec())

	require.Len(t, email.sent, 1)
	assert.Empty(t, sms.sent)

	msg := email.sent[0]
	assert.Equal(t, "ana@example.com", msg.Recipient)
	assert.Equal(t, "Subscription Successful", msg.Subject)
	assert.Contains(t, msg.Body, "FPV_BTG_PACTUAL_RECAUDADORA")
	assert.Contains(t, msg.Body, "75000")
}

func TestNotifyRoutesToSMS(t *testing.T) {
	email, sms, _, d := fixture()

	d.Notify(context.Background(), user(domain.NotifySMS), fund, subscribeRec())

	require.Len(t, sms.sent, 1)
	assert.Empty(t, email.sent)
	assert.Equal(t, "+573001112233", sms.sent[0].Recipient)
}

func TestNotifyCancelMessage(t *testing.T) {
	email, _, _, d := fixture()

	d.Notify(context.Background(), user(domain.NotifyEmail), fund, cancelRec())

	require.Len(t, email.sent, 1)
	assert.Equal(t, "Subscription Cancelled", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].Body, "refunded")
}

func TestNotifyCancelPolicyOff(t *testing.T) {
	email := &fakeNotifier{}
	queue := &fakeQueue{}
	d := NewDispatcher(email, &fakeNotifier{}, queue, false)

	d.Notify(context.Background(), user(domain.NotifyEmail), fund, cancelRec())

	assert.Empty(t, email.sent)
	assert.Empty(t, queue.queued)
}

func TestNotifyFailureQueuesForRetry(t *testing.T) {
	email := &fakeNotifier{err: errors.New("ses is down")}
	queue := &fakeQueue{}
	d := NewDispatcher(email, &fakeNotifier{}, queue, true)

	d.Notify(context.Background(), user(domain.NotifyEmail), fund, subscribeRec())

	require.Len(t, queue.queued, 1)
	queued := queue.queued[0]
	assert.Equal(t, domain.NotifyEmail, queued.Channel)
	assert.Equal(t, "ana@example.com", queued.Recipient)
	assert.Equal(t, "Subscription Successful", queued.Subject)
}
