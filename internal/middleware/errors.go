package middleware

import (
	"errors"
	"log"

	"connector-service/internal/apperror"

	"github.com/gofiber/fiber/v3"
)

// ErrorHandler writes the JSON body for errors returned by handlers.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"msg": fiberErr.Message})
	}

	appErr := apperror.From(err)
	if appErr.Kind == apperror.Internal {
		log.Printf("[%s] ERROR %s %s: %v", RequestFrom(c).RequestID, c.Method(), c.Path(), err)
	}
	return c.Status(appErr.HTTPStatus()).JSON(appErr.Body())
}
