package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roobiinpandey/qahwatapp/internal/events"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/testsupport"
)

func postTrack(t *testing.T, app *fiber.App, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestTrackEventEndpoint(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	product := testsupport.CreateTestProduct(t, db, "Sumatra Mandheling", 45)

	payload, _ := json.Marshal(map[string]any{
		"userId":    3,
		"sessionId": "sess-abc",
		"eventType": "product_view",
		"data": map[string]any{
			"productId": product.ID,
			"source":    "search",
			"isUnique":  true,
		},
	})
	resp := postTrack(t, app, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Event processed", body["message"])

	var event events.Event
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, events.EventTypeProductView, event.EventType)
	assert.Equal(t, uint(3), event.UserID)
	assert.Equal(t, "sess-abc", event.SessionID)
	assert.Equal(t, product.ID, event.ProductID)

	var rollup rollups.ProductRollup
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&rollup).Error)
	assert.Equal(t, 1, rollup.Views)
	assert.Equal(t, 1, rollup.TrafficSearch)
}

func TestTrackEventEndpointMasksUnknownType(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	payload, _ := json.Marshal(map[string]any{"eventType": "not_a_thing"})
	resp := postTrack(t, app, payload)

	// Tracking failures are never surfaced to the storefront.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["success"])

	var count int64
	require.NoError(t, db.Model(&events.Event{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTrackEventEndpointMasksMalformedBody(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	resp := postTrack(t, app, []byte("{not json"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["success"])
}

func TestTrackEventEndpointGeneratesSession(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	payload, _ := json.Marshal(map[string]any{"eventType": "page_view"})
	resp := postTrack(t, app, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var event events.Event
	require.NoError(t, db.First(&event).Error)
	assert.NotEmpty(t, event.SessionID)
}
