package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/juanDango/amaris-prueba-backend/internal/core/identity"
)

// ProviderIDKey is the fiber.Locals key holding the verified token subject.
const ProviderIDKey = "provider_id"

// Protected verifies the bearer access token and stores the verified
// subject in the request locals for handlers to resolve the local account.
func Protected(verifier identity.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"detail": "Missing bearer token"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid authorization header format"})
		}

		claims, err := verifier.Verify(c.Context(), parts[1])
		if err != nil {
			c.Set("WWW-Authenticate", "Bearer")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate token"})
		}

		c.Locals(ProviderIDKey, claims.Subject)
		return c.Next()
	}
}
