package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FundCategory is one of the two product families in the catalog.
type FundCategory string

const (
	CategoryFPV FundCategory = "FPV"
	CategoryFIC FundCategory = "FIC"
)

// ParseFundCategory validates a category coming from the outside world.
func ParseFundCategory(s string) (FundCategory, error) {
	switch FundCategory(s) {
	case CategoryFPV:
		return CategoryFPV, nil
	case CategoryFIC:
		return CategoryFIC, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// NotifOption selects the channel used for user notifications.
type NotifOption string

const (
	NotifyEmail NotifOption = "email"
	NotifySMS   NotifOption = "sms"
)

// TransactionType tags a ledger record as opening or closing a subscription.
type TransactionType string

const (
	TypeSubscribe TransactionType = "subscribe"
	TypeCancel    TransactionType = "cancel"
)

// Fund is a seeded catalog row. Amounts are whole units, no cents.
type Fund struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	MinAmount int64        `json:"min_amount"`
	Category  FundCategory `json:"category"`
}

// User holds the ledger state for one authenticated identity. Balance is
// mutated only by the subscription workflow.
type User struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Balance     int64       `json:"balance"`
	NotifOption NotifOption `json:"notif_option"`
	ProviderID  string      `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Transaction is an immutable subscribe/cancel event. For cancel records
// Amount is the refunded amount, equal to the subscription it closes.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	FundID    int64           `json:"fund_id"`
	Type      TransactionType `json:"transaction_type"`
	Amount    int64           `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// Notification is a queued outbound message, drained by the worker when the
// synchronous delivery attempt failed.
type Notification struct {
	ID        uuid.UUID
	Channel   NotifOption
	Recipient string
	Subject   string
	Body      string
	Attempts  int
	NextRunAt time.Time
	CreatedAt time.Time
}
