package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// respondError maps service and repository errors onto HTTP statuses.
// Unknown errors become an opaque 500; details go to the log, not the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidSession):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or expired session",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.Is(err, repositories.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "already exists",
		})
	case errors.Is(err, services.ErrSlotUnavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "slot unavailable",
		})
	default:
		utils.LogError("request failed", err, map[string]interface{}{
			"path":   c.Path(),
			"method": c.Method(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

// uuidParam parses a path parameter as a UUID
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// currentUserID reads the authenticated dashboard user set by the auth middleware
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	return uuid.Parse(raw)
}
