package livestock

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nogthings/befosa-software/internal/apierror"
	"github.com/Nogthings/befosa-software/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	app.Post("/entries", CreateEntryHandler(svc))
	app.Get("/entries/:id", GetEntryHandler(svc))
	app.Post("/exits", CreateExitHandler(svc))
	app.Get("/animals/instock/export", ExportInStockHandler(svc))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func errorBody(t *testing.T, raw []byte) apierror.Body {
	t.Helper()
	var body apierror.Body
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestCreateEntryHandler(t *testing.T) {
	svc, db := newTestService(t)
	app := newTestApp(svc)
	clientID := seedClient(t, db, "Acme")

	valid := `{"entryData":{"clientId":"` + clientID.String() + `","invoiceNumber":"F-1"},
		"animals":[{"tag":"A1","species":"Bovino","weight":500,"price":1000,"pen":"C1"}]}`

	status, raw := post(t, app, "/entries", valid)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var entry struct {
		ID      uuid.UUID `json:"id"`
		Details []struct {
			Price  json.Number `json:"price"`
			Animal struct {
				Tag    string `json:"tag"`
				Status string `json:"status"`
			} `json:"animal"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(raw, &entry))
	require.Len(t, entry.Details, 1)
	assert.Equal(t, "A1", entry.Details[0].Animal.Tag)
	assert.Equal(t, "IN_STOCK", entry.Details[0].Animal.Status)
	assert.Equal(t, "1000", entry.Details[0].Price.String())

	status, raw = post(t, app, "/entries", valid)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "duplicate_tag", errorBody(t, raw).Code)

	status, raw = post(t, app, "/entries", `{"entryData":{"clientId":"`+clientID.String()+`"},"animals":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "no_animals", errorBody(t, raw).Code)

	status, raw = post(t, app, "/entries", `{"animals":[{"tag":"Z9"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, errorBody(t, raw).Fields, "entryData")

	status, _ = post(t, app, "/entries", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateExitHandler_BusinessRuleErrors(t *testing.T) {
	svc, db := newTestService(t)
	app := newTestApp(svc)
	clientID := seedClient(t, db, "Acme")
	herd := stock(t, svc, clientID, cow("A1", "500", "1000"))

	body := `{"exitData":{"clientId":"` + clientID.String() + `"},"animals":[{"id":"` + herd["A1"].ID.String() + `","salePrice":1200}]}`

	status, raw := post(t, app, "/exits", body)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var exit struct {
		TotalProfit json.Number `json:"totalProfit"`
	}
	require.NoError(t, json.Unmarshal(raw, &exit))
	assert.Equal(t, "200", exit.TotalProfit.String())

	status, raw = post(t, app, "/exits", body)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	resp := errorBody(t, raw)
	assert.Equal(t, "animal_not_in_stock", resp.Code)
	assert.Contains(t, resp.Error, "A1")

	missing := `{"exitData":{"clientId":"` + clientID.String() + `"},"animals":[{"id":"` + uuid.NewString() + `","salePrice":1}]}`
	status, raw = post(t, app, "/exits", missing)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "animal_not_found", errorBody(t, raw).Code)

	status, raw = post(t, app, "/exits", `{"exitData":{"clientId":"`+clientID.String()+`"},"animals":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "no_animals", errorBody(t, raw).Code)
}

func TestGetEntryHandler_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/entries/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/entries/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportInStockHandler(t *testing.T) {
	svc, db := newTestService(t)
	app := newTestApp(svc)
	stock(t, svc, seedClient(t, db, "Acme"), cow("A1", "500", "1000"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/animals/instock/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "inventario.xlsx")
}
