package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Nogthings/befosa-software/internal/apierror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, app *fiber.App, path string) (int, apierror.Body) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body apierror.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/api", func(c *fiber.Ctx) error {
		return apierror.New(fiber.StatusConflict, "duplicate_tag", "An animal with tag A1 already exists.")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Client not found")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection reset by peer")
	})

	status, body := decodeBody(t, app, "/api")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "duplicate_tag", body.Code)
	assert.Contains(t, body.Error, "A1")

	status, body = decodeBody(t, app, "/fiber")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Client not found", body.Error)

	status, body = decodeBody(t, app, "/boom")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "An error occurred.", body.Error)
}

func TestRequestLoggerKeepsErrorStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Entry not found.")
	})

	status, body := decodeBody(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Entry not found.", body.Error)
}

func TestRateLimit(t *testing.T) {
	limit, err := RateLimit("2-M")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/login", limit, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	_, err = RateLimit("ten per minute")
	assert.Error(t, err)
}
