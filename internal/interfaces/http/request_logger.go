package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/pkg/logger"
)

// RequestLogger escribe una línea por petición: método, ruta, status y latencia.
// Las respuestas 5xx se registran en nivel error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// El ErrorHandler de fiber aún no corrió; se resuelve aquí para loguear el status real.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return nil
	}
}
