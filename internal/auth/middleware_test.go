package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(store SessionStore, roles ...models.UserRole) *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret, SessionTTL: time.Hour}
	app := fiber.New()
	app.Use(JWTMiddleware(cfg, store))
	app.Use(RequireRole(roles...))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CurrentActor(c).UserName)
	})
	return app
}

func get(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTMiddleware(t *testing.T) {
	store := NewMemoryStore()
	app := newProtectedApp(store, models.RoleAdmin)

	token, claims, err := GenerateToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Token "+token))
	assert.Equal(t, fiber.StatusOK, get(t, app, "Bearer "+token))

	require.NoError(t, store.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Bearer "+token))
}

func TestRequireRole(t *testing.T) {
	app := newProtectedApp(NewMemoryStore(), models.UserRole("AUDITOR"))

	token, _, err := GenerateToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "Bearer "+token))
}
