package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// Store is the persistence surface the workflow needs. The pgx-backed
// implementation lives in internal/adapter/storage.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	UserByProviderID(ctx context.Context, providerID string) (*domain.User, error)
	TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
}

// Tx scopes the balance mutation and transaction append to one atomic unit.
// UserByProviderIDForUpdate must lock the user row until Commit/Rollback so
// that racing workflow runs for the same user serialize at the store.
type Tx interface {
	UserByProviderIDForUpdate(ctx context.Context, providerID string) (*domain.User, error)
	Fund(ctx context.Context, fundID int64) (*domain.Fund, error)
	FundHistory(ctx context.Context, userID uuid.UUID, fundID int64) ([]domain.Transaction, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Notifier receives the outcome of a committed workflow run. Implementations
// must be best-effort: a delivery failure never reaches the caller.
type Notifier interface {
	Notify(ctx context.Context, user *domain.User, fund *domain.Fund, rec *domain.Transaction)
}

// TransactionRequest is the client's side of a workflow run. Amount is only
// meaningful for subscribe; the cancel refund always comes from the ledger.
type TransactionRequest struct {
	FundID int64
	Type   domain.TransactionType
	Amount *int64
}

// Ledger runs the subscription workflow. It is the only component allowed to
// mutate balances and append transactions.
type Ledger struct {
	store    Store
	notifier Notifier
	clock    clock.Clock
	locks    *kmutex.Kmutex
}

func NewLedger(store Store, notifier Notifier, clk clock.Clock) *Ledger {
	return &Ledger{
		store:    store,
		notifier: notifier,
		clock:    clk,
		locks:    kmutex.New(),
	}
}

type lockKey struct {
	providerID string
	fundID     int64
}

// Apply validates and executes one subscribe/cancel request for the caller
// identified by providerID and returns the appended transaction record.
//
// A per-(user, fund) lock is held across validation and commit so that two
// concurrent requests cannot both observe "no active subscription"; the
// locked user row inside the store transaction gives the same guarantee
// across processes.
func (l *Ledger) Apply(ctx context.Context, providerID string, req TransactionRequest) (*domain.Transaction, error) {
	if req.Type != domain.TypeSubscribe && req.Type != domain.TypeCancel {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, req.Type)
	}

	key := lockKey{providerID: providerID, fundID: req.FundID}
	l.locks.Lock(key)
	defer l.locks.Unlock(key)

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := tx.UserByProviderIDForUpdate(ctx, providerID)
	if err != nil {
		return nil, err
	}
	fund, err := tx.Fund(ctx, req.FundID)
	if err != nil {
		return nil, err
	}
	history, err := tx.FundHistory(ctx, user.ID, fund.ID)
	if err != nil {
		return nil, fmt.Errorf("load fund history: %w", err)
	}
	active := domain.ActiveSubscription(history)

	var amount, newBalance int64
	switch req.Type {
	case domain.TypeSubscribe:
		if active != nil {
			return nil, fmt.Errorf("%w '%s'", domain.ErrAlreadySubscribed, fund.Name)
		}
		if req.Amount == nil {
			return nil, domain.ErrAmountRequired
		}
		if *req.Amount < fund.MinAmount {
			return nil, fmt.Errorf("%w of %d", domain.ErrBelowMinimum, fund.MinAmount)
		}
		if user.Balance < *req.Amount {
			return nil, fmt.Errorf("%w to subscribe to fund '%s'", domain.ErrInsufficientFunds, fund.Name)
		}
		amount = *req.Amount
		newBalance = user.Balance - amount
	case domain.TypeCancel:
		if active == nil {
			return nil, fmt.Errorf("%w '%s'", domain.ErrNotSubscribed, fund.Name)
		}
		// Refund exactly what the open subscription recorded, never a
		// client-supplied amount.
		amount = active.Amount
		newBalance = user.Balance + amount
	}

	rec := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    user.ID,
		FundID:    fund.ID,
		Type:      req.Type,
		Amount:    amount,
		Timestamp: l.clock.Now().UTC(),
	}

	if err := tx.UpdateBalance(ctx, user.ID, newBalance); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	if err := tx.InsertTransaction(ctx, rec); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	user.Balance = newBalance
	l.notifier.Notify(ctx, user, fund, rec)

	return rec, nil
}

// UserTransactions lists every ledger record owned by the caller.
func (l *Ledger) UserTransactions(ctx context.Context, providerID string) ([]domain.Transaction, error) {
	user, err := l.store.UserByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	records, err := l.store.TransactionsByUser(ctx, user.ID)
	if err != nil {
		slog.Error("failed to list transactions", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return records, nil
}
