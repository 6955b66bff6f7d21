package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// HeaderDegraded presente mientras el almacenamiento está fallando.
const HeaderDegraded = "X-Ledger-Degraded"

type degradedChecker interface {
	Degraded() bool
}

// DegradedHeader marca cada respuesta con X-Ledger-Degraded: true si el libro
// no pudo persistir su última escritura o carga.
func DegradedHeader(d degradedChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if d.Degraded() {
			c.Set(HeaderDegraded, "true")
		}
		return err
	}
}

// RequestLogger registra método, ruta, status y latencia de cada petición.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
