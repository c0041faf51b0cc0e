package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/infrastructure/messaging"
	apphttp "github.com/jhoicas/Stock-api/internal/interfaces/http"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type recordedActivity struct {
	userID, action, ip string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedActivity
	err   error
}

func (f *fakeRecorder) RecordActivity(_ context.Context, userID, action, ip, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedActivity{userID: userID, action: action, ip: ip})
	return f.err
}

func activityApp(rec apphttp.ActivityRecorder) *fiber.App {
	app := fiber.New()
	g := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret), apphttp.ActivityLogger(rec, logger.Nop()))
	g.Get("/products", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	g.Post("/products", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	g.Post("/sales", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusConflict) })
	return app
}

func call(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", tokenForRole(t, "manager"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ─────────────────────────────────────────────────────────────────────────────
// ActivityLogger
// ─────────────────────────────────────────────────────────────────────────────

func TestActivityLogger_RegistraMutacionExitosa(t *testing.T) {
	rec := &fakeRecorder{}
	resp := call(t, activityApp(rec), http.MethodPost, "/api/products")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, testUserID, rec.calls[0].userID)
	assert.Equal(t, "POST /api/products", rec.calls[0].action)
}

func TestActivityLogger_IgnoraLecturasYFallos(t *testing.T) {
	rec := &fakeRecorder{}
	app := activityApp(rec)

	resp := call(t, app, http.MethodGet, "/api/products")
	resp.Body.Close()
	resp = call(t, app, http.MethodPost, "/api/sales")
	resp.Body.Close()

	assert.Empty(t, rec.calls)
}

func TestActivityLogger_FalloDelRegistroNoAfectaRespuesta(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db caída")}
	resp := call(t, activityApp(rec), http.MethodPost, "/api/products")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, rec.calls, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// RequestLogger
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(messaging.CorrelationID(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, "req-123", body.String(), "el correlation id debe llegar al contexto del handler")
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestRequestLogger_GeneraRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Len(t, resp.Header.Get(apphttp.HeaderRequestID), 36)
}
