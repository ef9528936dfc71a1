package clients

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nogthings/befosa-software/internal/apierror"
	"github.com/Nogthings/befosa-software/internal/middleware"
	"github.com/Nogthings/befosa-software/internal/models"
	"github.com/Nogthings/befosa-software/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	app.Get("/clients", ListClientsHandler(db))
	app.Post("/clients", CreateClientHandler(db))
	app.Get("/clients/:id", GetClientHandler(db))
	app.Put("/clients/:id", UpdateClientHandler(db))
	app.Delete("/clients/:id", DeleteClientHandler(db))
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestClientCRUD(t *testing.T) {
	app, db := newTestApp(t)

	var created models.Client
	status := do(t, app, fiber.MethodPost, "/clients",
		`{"name":"  Acme  ","phone":"555-0101","city":"Hermosillo","rfc":"acm010101abc"}`, &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Acme", created.Name)
	assert.Equal(t, "ACM010101ABC", created.RFC)
	assert.NotEqual(t, uuid.Nil, created.ID)

	var got models.Client
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/clients/"+created.ID.String(), "", &got))
	assert.Equal(t, "Hermosillo", got.City)

	var updated models.Client
	status = do(t, app, fiber.MethodPut, "/clients/"+created.ID.String(), `{"name":"Acme SA","city":"Obregon"}`, &updated)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Acme SA", updated.Name)
	assert.Equal(t, "Obregon", updated.City)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, "ACM010101ABC", updated.RFC)

	assert.Equal(t, fiber.StatusNoContent, do(t, app, fiber.MethodDelete, "/clients/"+created.ID.String(), "", nil))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, fiber.MethodGet, "/clients/"+created.ID.String(), "", nil))

	var actions []models.AuditAction
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("entity_id = ?", created.ID).
		Order("created_at ASC").
		Pluck("action", &actions).Error)
	assert.ElementsMatch(t, []models.AuditAction{models.AuditActionCreate, models.AuditActionUpdate, models.AuditActionDelete}, actions)
}

func TestUpdateClient_KeepsOmittedFields(t *testing.T) {
	app, db := newTestApp(t)

	var created models.Client
	require.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/clients",
		`{"name":"Acme","email":"a@acme.com","phone":"555","address":"Calle 1"}`, &created))
	path := "/clients/" + created.ID.String()

	var updated models.Client
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodPut, path, `{"name":"Acme SA"}`, &updated))
	assert.Equal(t, "Acme SA", updated.Name)

	var stored models.Client
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, "Acme SA", stored.Name)
	assert.Equal(t, "a@acme.com", stored.Email)
	assert.Equal(t, "555", stored.Phone)
	assert.Equal(t, "Calle 1", stored.Address)

	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodPut, path, `{"phone":""}`, &updated))
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Empty(t, stored.Phone)
	assert.Equal(t, "Acme SA", stored.Name)

	var body apierror.Body
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodPut, path, `{"name":"  "}`, &body))
	assert.Equal(t, "is required", body.Fields["name"])
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, "Acme SA", stored.Name)
}

func TestCreateClient_RequiresName(t *testing.T) {
	app, db := newTestApp(t)

	var body apierror.Body
	status := do(t, app, fiber.MethodPost, "/clients", `{"name":"   ","phone":"1"}`, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "is required", body.Fields["name"])

	status = do(t, app, fiber.MethodPost, "/clients", `{"name":"Acme","email":"nope"}`, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var n int64
	require.NoError(t, db.Model(&models.Client{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClientNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	id := uuid.NewString()

	assert.Equal(t, fiber.StatusNotFound, do(t, app, fiber.MethodGet, "/clients/"+id, "", nil))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, fiber.MethodPut, "/clients/"+id, `{"name":"X"}`, nil))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, fiber.MethodDelete, "/clients/"+id, "", nil))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodGet, "/clients/abc", "", nil))
}

func TestDeleteClient_InUse(t *testing.T) {
	app, db := newTestApp(t)

	client := models.Client{Name: "Acme"}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&models.Entry{ClientID: client.ID, Date: time.Now()}).Error)

	var body apierror.Body
	status := do(t, app, fiber.MethodDelete, "/clients/"+client.ID.String(), "", &body)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "client_in_use", body.Code)

	var n int64
	require.NoError(t, db.Model(&models.Client{}).Where("id = ?", client.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestListClients_NewestFirst(t *testing.T) {
	app, db := newTestApp(t)

	now := time.Now()
	require.NoError(t, db.Create(&models.Client{Name: "Old", CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Client{Name: "New", CreatedAt: now}).Error)

	var list []models.Client
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/clients", "", &list))
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].Name)
}
