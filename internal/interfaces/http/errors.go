package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/pkg/validation"
)

// localErr guarda el error interno para que el logger de peticiones lo registre.
const localErr = "request_error"

// fail traduce un error de la capa de aplicación a la respuesta HTTP.
// Los sentinels de domain pueden llegar envueltos; se comparan con errors.Is.
func fail(c *fiber.Ctx, err error) error {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fields})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}
	c.Locals(localErr, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// bind parsea el cuerpo JSON en v y lo valida con sus tags `validate`.
// Si falla, ya escribió la respuesta 400 y devuelve false.
func bind(c *fiber.Ctx, v interface{}) (bool, error) {
	if err := c.BodyParser(v); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validation.Struct(v); err != nil {
		return false, fail(c, err)
	}
	return true, nil
}

// page lee limit/offset del query string y aplica los límites.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultLimit), Offset: c.QueryInt("offset", 0)}
	p.Normalize()
	return p
}

// queryDate acepta YYYY-MM-DD o RFC3339. Vacío devuelve nil.
// Los repositorios usan "to" como cota exclusiva: una fecha sin hora en "to"
// se lleva a la medianoche siguiente para cubrir el día completo.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, validation.FieldErrors{key: "debe ser una fecha YYYY-MM-DD o RFC3339"}
	}
	if key == "to" {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// dateRange lee los parámetros from/to.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "to"); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && !to.After(*from) {
		return nil, nil, validation.FieldErrors{"to": "debe ser posterior a from"}
	}
	return from, to, nil
}
