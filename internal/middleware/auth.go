package middleware

import (
	"log"
	"strings"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

const TokenHeader = "x-auth-token"

type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// Auth rejects requests without a valid token and attaches the caller's
// identity to the rest.
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return apperror.ErrNoToken
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.Printf("Token rejected on %s %s: %v", c.Method(), c.Path(), err)
			return apperror.ErrNoToken
		}

		RequestFrom(c).Identity = identity
		return c.Next()
	}
}

func extractToken(c fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
