package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kobuai/kobu-ai-be/internal/shared/database"
)

// HealthHandler reports process and database liveness
type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// @Summary Liveness and database connectivity probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().UTC(),
	})
}
