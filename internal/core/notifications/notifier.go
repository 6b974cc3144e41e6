package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// Message is one rendered outbound notification.
type Message struct {
	Subject   string
	Body      string
	Recipient string
}

// Notifier is a single delivery channel (email or SMS).
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Queue stores messages whose synchronous delivery failed, for the worker to
// retry. Implemented by storage.OutboxRepository.
type Queue interface {
	Enqueue(ctx context.Context, n domain.Notification) error
}

// Dispatcher turns a committed workflow outcome into exactly one outbound
// message, routed by the user's stored preference. Delivery is best-effort:
// failures are logged and queued for retry, never returned to the workflow.
type Dispatcher struct {
	Email          Notifier
	SMS            Notifier
	Queue          Queue
	NotifyOnCancel bool
	Timeout        time.Duration
}

func NewDispatcher(email, sms Notifier, queue Queue, notifyOnCancel bool) *Dispatcher {
	return &Dispatcher{
		Email:          email,
		SMS:            sms,
		Queue:          queue,
		NotifyOnCancel: notifyOnCancel,
		Timeout:        5 * time.Second,
	}
}

// Notify renders and delivers the message for one ledger event.
func (d *Dispatcher) Notify(ctx context.Context, user *domain.User, fund *domain.Fund, rec *domain.Transaction) {
	if rec.Type == domain.TypeCancel && !d.NotifyOnCancel {
		return
	}

	msg := render(user, fund, rec)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.Timeout)
	defer cancel()

	if err := d.Send(sendCtx, user.NotifOption, msg); err != nil {
		slog.Warn("notification delivery failed, queueing for retry",
			"error", err, "channel", user.NotifOption, "user_id", user.ID)
		queued := domain.Notification{
			Channel:   user.NotifOption,
			Recipient: msg.Recipient,
			Subject:   msg.Subject,
			Body:      msg.Body,
		}
		if err := d.Queue.Enqueue(sendCtx, queued); err != nil {
			slog.Error("failed to queue notification", "error", err, "user_id", user.ID)
		}
	}
}

// Send delivers on the named channel. Also used by the outbox worker.
func (d *Dispatcher) Send(ctx context.Context, channel domain.NotifOption, msg Message) error {
	switch channel {
	case domain.NotifySMS:
		return d.SMS.Send(ctx, msg)
	default:
		return d.Email.Send(ctx, msg)
	}
}

func render(user *domain.User, fund *domain.Fund, rec *domain.Transaction) Message {
	msg := Message{Recipient: user.Email}
	if user.NotifOption == domain.NotifySMS {
		msg.Recipient = user.Phone
	}

	switch rec.Type {
	case domain.TypeCancel:
		msg.Subject = "Subscription Cancelled"
		msg.Body = fmt.Sprintf(
			"Your subscription to the fund '%s' has been cancelled and %d was refunded to your balance.",
			fund.Name, rec.Amount)
	default:
		msg.Subject = "Subscription Successful"
		msg.Body = fmt.Sprintf(
			"You have successfully subscribed to the fund '%s' with an amount of %d.",
			fund.Name, rec.Amount)
	}
	return msg
}
