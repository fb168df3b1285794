package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var statusMapping = []struct {
	err    error
	status int
}{
	{services.ErrInvalidTarget, fiber.StatusBadRequest},
	{services.ErrEmptyContent, fiber.StatusBadRequest},
	{services.ErrDuplicateRequest, fiber.StatusConflict},
	{services.ErrAlreadyFriends, fiber.StatusConflict},
	{services.ErrAccountTaken, fiber.StatusConflict},
	{services.ErrRequestNotFound, fiber.StatusNotFound},
	{services.ErrAccountNotFound, fiber.StatusNotFound},
	{services.ErrPostNotFound, fiber.StatusNotFound},
	{services.ErrPostNotFoundOrForbidden, fiber.StatusNotFound},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
}

// StatusOf resolves the response status of an error returned by a handler.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	for _, item := range statusMapping {
		if errors.Is(err, item.err) {
			return item.status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler writes {"error": message}. Details of internal errors only go
// to the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("An error occurred when handling request...")
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
