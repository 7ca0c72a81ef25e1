package handlers

import (
	"errors"
	"log"

	"greenbuild/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto HTTP responses.
func respondError(c *fiber.Ctx, err error, message string) error {
	var (
		validationErr *models.ValidationError
		transitionErr *models.InvalidTransitionError
		notFoundErr   *models.NotFoundError
		syncErr       *models.SyncError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"errors":  validationErr.Fields,
		})
	case errors.As(err, &transitionErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.As(err, &syncErr):
		// Nothing local changed; the client may retry.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":   message,
			"error":     err.Error(),
			"retryable": true,
		})
	}

	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
