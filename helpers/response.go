package helpers

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/apperrors"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"statusCode": fiber.StatusOK,
		"success":    true,
		"message":    message,
		"data":       data,
	})
}

func JSONCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"statusCode": fiber.StatusCreated,
		"success":    true,
		"message":    message,
		"data":       data,
	})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"success":    false,
		"message":    message,
		"data":       nil,
	})
}

// JSONAppError serializes a service error using the apperrors status mapping.
func JSONAppError(c *fiber.Ctx, err error) error {
	return JSONError(c, apperrors.Status(err), err.Error())
}
