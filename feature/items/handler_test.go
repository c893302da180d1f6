package items

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"shoplist/core/middleware/identity"
	"shoplist/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, app *fiber.App, method, path string, user reconcile.User, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.HeaderUserID, user.ID)
	req.Header.Set(identity.HeaderUserEmail, user.Email)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestHandler_ItemLifecycle(t *testing.T) {
	f := newFixture(t)
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)

	status, body := call(t, app, "POST", "/lists/"+f.listID+"/items", member, AddRequest{Name: "yoğurt"})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var it Item
	require.NoError(t, json.Unmarshal(body, &it))
	assert.Equal(t, "dairy_yogurt", it.Category)

	status, body = call(t, app, "POST", "/items/"+it.ID+"/pick", owner, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &it))
	assert.True(t, it.Picked)

	status, _ = call(t, app, "DELETE", "/items/"+it.ID+"/pick", owner, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, "PATCH", "/items/"+it.ID, owner, map[string]string{"quantity": "500 g"})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, "DELETE", "/items/"+it.ID, owner, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = call(t, app, "GET", "/lists/"+f.listID+"/items", member, nil)
	require.Equal(t, fiber.StatusOK, status)
	var g Grouped
	require.NoError(t, json.Unmarshal(body, &g))
	require.Len(t, g.Deleted, 1)
	assert.Equal(t, "500 g", g.Deleted[0].Quantity)

	status, _ = call(t, app, "POST", "/items/"+it.ID+"/restore", owner, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = call(t, app, "POST", "/lists/"+f.listID+"/items/clear-picked", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"count":0}`, string(body))

	status, body = call(t, app, "DELETE", "/lists/"+f.listID+"/items", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"count":1}`, string(body))
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t)
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)

	status, _ := call(t, app, "POST", "/lists/"+f.listID+"/items", owner, AddRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/lists/"+f.listID+"/items", stranger, AddRequest{Name: "milk"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "PATCH", "/items/missing", owner, map[string]string{"name": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/lists/"+f.listID+"/items", owner, AddRequest{Name: "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	it := f.add(t, owner, AddRequest{Name: "milk"})
	status, _ = call(t, app, "PATCH", "/items/"+it.ID, owner, map[string]string{"name": "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "GET", "/lists/"+f.listID+"/items", reconcile.User{}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
