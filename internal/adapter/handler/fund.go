package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// FundStore is the read-only catalog surface the handler needs.
type FundStore interface {
	Fund(ctx context.Context, id int64) (*domain.Fund, error)
	Funds(ctx context.Context) ([]domain.Fund, error)
	FundsByCategory(ctx context.Context, category domain.FundCategory) ([]domain.Fund, error)
}

type FundHandler struct {
	Repo FundStore
}

func (h *FundHandler) ListFunds(c *fiber.Ctx) error {
	funds, err := h.Repo.Funds(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(funds)
}

func (h *FundHandler) GetFund(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("fund_id"), 10, 64)
	if err != nil {
		return fail(c, domain.ErrFundNotFound)
	}

	fund, err := h.Repo.Fund(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fund)
}

func (h *FundHandler) ListFundsByCategory(c *fiber.Ctx) error {
	category, err := domain.ParseFundCategory(c.Params("category"))
	if err != nil {
		return fail(c, err)
	}

	funds, err := h.Repo.FundsByCategory(c.Context(), category)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(funds)
}
