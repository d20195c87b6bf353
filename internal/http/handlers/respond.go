package handlers

import (
	"github.com/gofiber/fiber/v2"

	"threadline/internal/apperr"
	applog "threadline/internal/log"
)

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondErr converts a service error into the `{message}` envelope. Storage
// and unexpected errors are logged and answered with their generic client
// message, never the underlying cause.
func respondErr(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	msg := apperr.MessagesOf(err)[0]
	if status == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		if apperr.KindOf(err) != apperr.KindStorage {
			msg = "Something went wrong. Please try again."
		}
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// respondAuthErr is the register/login call-site shape: aggregated
// `{errors:[...]}` bodies.
func respondAuthErr(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(status).JSON(fiber.Map{"errors": []string{apperr.MessagesOf(err)[0]}})
	}
	return c.Status(status).JSON(fiber.Map{"errors": apperr.MessagesOf(err)})
}
