package handlers

import (
	"context"
	"time"

	"connector-service/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

const defaultRequestTimeout = 10 * time.Second

// Options is shared by every route handler.
type Options struct {
	Verifier       middleware.TokenVerifier
	RequestTimeout time.Duration
}

func (o Options) auth() fiber.Handler {
	return middleware.Auth(o.Verifier)
}

func (o Options) context() (context.Context, context.CancelFunc) {
	timeout := o.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func message(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"msg": msg})
}
