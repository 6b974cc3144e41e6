package domain

import "errors"

// Sentinel errors for the ledger workflow. Handlers translate these to HTTP
// statuses; callers add detail with fmt.Errorf("%w ...", err).
var (
	ErrFundNotFound      = errors.New("fund not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCategory   = errors.New("invalid fund category")
	ErrAlreadySubscribed = errors.New("user is already subscribed to fund")
	ErrNotSubscribed     = errors.New("user is not subscribed to fund")
	ErrAmountRequired    = errors.New("amount is required for subscription")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrBelowMinimum      = errors.New("amount must be at least the fund minimum")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrProviderRejected  = errors.New("identity provider rejected the request")
	ErrUpstream          = errors.New("identity provider unavailable")
)
