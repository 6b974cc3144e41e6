package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/identity"
)

// UserStore creates the local ledger row for a registered identity.
type UserStore interface {
	CreateUser(ctx context.Context, email, phone, providerID string) (*domain.User, error)
}

type AuthHandler struct {
	Provider identity.Provider
	Users    UserStore
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

type ConfirmRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers the identity with the provider and creates the local
// account with its initial balance.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Email and password are required"})
	}

	providerID, err := h.Provider.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	user, err := h.Users.CreateUser(c.Context(), req.Email, req.PhoneNumber, providerID)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("user signed up", "id", user.ID, "email", user.Email)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User signed up successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	if err := h.Provider.Confirm(c.Context(), req.Email, req.ConfirmationCode); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User confirmed successfully"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	tokens, err := h.Provider.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tokens)
}
