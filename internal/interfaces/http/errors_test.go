package http

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
)

func decodeError(t *testing.T, resp *nethttp.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// fail: traducción de errores de dominio
// ─────────────────────────────────────────────────────────────────────────────

func TestFail_MapeaSentinelsEnvueltos(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("producto x: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("nombre: %w", domain.ErrDuplicate), fiber.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("cantidad: %w", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("venta: %w", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("reintentos: %w", domain.ErrConflict), fiber.StatusConflict, "CONFLICT"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{errors.New("conexión perdida"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tc.err) })
			resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestFail_InternoNoExponeDetalle(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return fail(c, errors.New("password=secreto")) })
	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	body := decodeError(t, resp)
	assert.NotContains(t, body.Message, "secreto")
}

// ─────────────────────────────────────────────────────────────────────────────
// bind: parseo y validación del cuerpo
// ─────────────────────────────────────────────────────────────────────────────

func bindApp() *fiber.App {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in dto.AdjustStockRequest
		if ok, err := bind(c, &in); !ok {
			return err
		}
		return c.JSON(in)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) *nethttp.Response {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestBind_CuerpoMalformado(t *testing.T) {
	resp := postJSON(t, bindApp(), "{no es json")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestBind_DetallePorCampo(t *testing.T) {
	resp := postJSON(t, bindApp(), `{"product_id":"x","delta":0,"type":"REGALO"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "product_id")
	assert.Contains(t, body.Details, "location_id")
	assert.Contains(t, body.Details, "delta")
	assert.Contains(t, body.Details, "type")
}

func TestBind_Valido(t *testing.T) {
	resp := postJSON(t, bindApp(), `{"product_id":"6f1d1a8e-3c1b-4a4e-9a53-1f6c1d2e3f40","location_id":"0b7e2f1c-8d9a-4c3b-a1e2-f3d4c5b6a798","delta":-3,"type":"SALE"}`)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Parámetros de query
// ─────────────────────────────────────────────────────────────────────────────

func TestPage_AplicaLimites(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.JSON(page(c)) })

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/?limit=500&offset=-4", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var p dto.PageRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, dto.MaxLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestDateRange(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return fail(c, err)
		}
		out := fiber.Map{}
		if from != nil {
			out["from"] = from.Format("2006-01-02 15:04")
		}
		if to != nil {
			out["to"] = to.Format("2006-01-02 15:04")
		}
		return c.JSON(out)
	})

	t.Run("fechas simples cubren el día final", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/?from=2024-03-01&to=2024-03-31", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "2024-03-01 00:00", out["from"])
		assert.Equal(t, "2024-04-01 00:00", out["to"], "cota exclusiva en la medianoche siguiente")
	})

	t.Run("mismo día en from y to", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/?from=2024-03-31&to=2024-03-31", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("formato inválido", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/?from=01/03/2024", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeError(t, resp).Details, "from")
	})

	t.Run("to anterior a from", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/?from=2024-03-10&to=2024-03-01", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
