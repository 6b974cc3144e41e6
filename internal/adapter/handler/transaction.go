package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/juanDango/amaris-prueba-backend/internal/adapter/middleware"
	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/service"
)

// SubscriptionService is the workflow surface exposed to HTTP.
type SubscriptionService interface {
	Apply(ctx context.Context, providerID string, req service.TransactionRequest) (*domain.Transaction, error)
	UserTransactions(ctx context.Context, providerID string) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	Ledger SubscriptionService
}

// CreateTransactionRequest is the body of POST /funds/post/transactions.
// Amount is optional: required for subscribe, ignored for cancel.
type CreateTransactionRequest struct {
	FundID          int64  `json:"fund_id"`
	TransactionType string `json:"transaction_type"`
	Amount          *int64 `json:"amount"`
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("invalid transaction body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	providerID, _ := c.Locals(middleware.ProviderIDKey).(string)

	rec, err := h.Ledger.Apply(c.Context(), providerID, service.TransactionRequest{
		FundID: req.FundID,
		Type:   domain.TransactionType(req.TransactionType),
		Amount: req.Amount,
	})
	if err != nil {
		return fail(c, err)
	}

	slog.Info("transaction created",
		"id", rec.ID, "type", rec.Type, "fund_id", rec.FundID, "amount", rec.Amount)
	return c.JSON(rec)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	providerID, _ := c.Locals(middleware.ProviderIDKey).(string)

	records, err := h.Ledger.UserTransactions(c.Context(), providerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(records)
}
