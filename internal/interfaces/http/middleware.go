package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Stock-api/internal/infrastructure/messaging"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// HeaderRequestID cabecera de correlación entre peticiones y eventos publicados.
const HeaderRequestID = "X-Request-ID"

// RequestLogger asigna un request ID (o respeta el recibido), lo propaga en el
// UserContext para que los eventos lo lleven como correlation_id y registra la petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(HeaderRequestID, requestID)
		c.SetUserContext(messaging.WithCorrelationID(c.UserContext(), requestID))

		err := c.Next()

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if cause, ok := c.Locals(localErr).(error); ok {
				ev = ev.Err(cause)
			}
		}
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Str("remote_addr", c.IP()).
			Msg("HTTP request")
		return err
	}
}

// ActivityRecorder registra acciones de usuario en la bitácora.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID, action, ip, userAgent string) error
}

// ActivityLogger registra en la bitácora cada petición mutante exitosa de un usuario autenticado.
// Un fallo al registrar no afecta la respuesta.
func ActivityLogger(rec ActivityRecorder, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead || c.Method() == fiber.MethodOptions {
			return err
		}
		userID := GetUserID(c)
		status := c.Response().StatusCode()
		if err != nil || userID == "" || status >= fiber.StatusBadRequest {
			return err
		}
		action := c.Method() + " " + c.Route().Path
		if recErr := rec.RecordActivity(c.UserContext(), userID, action, c.IP(), string(c.Request().Header.UserAgent())); recErr != nil {
			log.Warn().Err(recErr).Str("user_id", userID).Str("action", action).Msg("no se pudo registrar la actividad")
		}
		return nil
	}
}
