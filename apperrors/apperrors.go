package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation        = fmt.Errorf("validation failed")
	ErrNotFound          = fmt.Errorf("not found")
	ErrConflict          = fmt.Errorf("state conflict")
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrUpstream          = fmt.Errorf("upstream failure")
)

// Status maps a sentinel (possibly wrapped) to its HTTP status code.
// Anything unrecognized is a 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientFunds):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func Upstreamf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUpstream)...)
}
