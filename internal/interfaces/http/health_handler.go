package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
)

// Health GET /health. Responde 200 aunque el almacenamiento esté degradado.
func Health(d degradedChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "ok"
		if d.Degraded() {
			status = "degraded"
		}
		return c.JSON(dto.HealthResponse{Status: status, Degraded: d.Degraded()})
	}
}
