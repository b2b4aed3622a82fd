package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/services"
)

// statusForError maps service failures onto the response taxonomy. Anything
// unrecognized is a 500 with the detail suppressed.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrInvalidPinFormat),
		errors.Is(err, services.ErrInvalidAccessCodeFormat),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrIncorrectPin):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPropertyNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidVerifyToken),
		errors.Is(err, services.ErrInvalidAccessCode):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrAccessCodeRequired),
		errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrOTPRateLimited),
		errors.Is(err, services.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func fail(c *fiber.Ctx, err error) error {
	status, msg := statusForError(err)
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
