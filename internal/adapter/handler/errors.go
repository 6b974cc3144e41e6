package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

// fail maps the domain error taxonomy onto HTTP statuses. Business errors
// carry their own message in the detail field; anything unrecognized is a
// 500 with a generic detail so internals never leak.
func fail(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, domain.ErrFundNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadySubscribed),
		errors.Is(err, domain.ErrNotSubscribed),
		errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrAmountRequired),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrProviderRejected):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCategory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusServiceUnavailable
	default:
		slog.Error("request failed", "error", err, "path", c.Path())
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}
