package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	m := newFixtureMatcher(t, Config{Locales: []string{"en", "tr"}})
	feature := NewFeature(NewServiceFromMatcher(m, zap.NewNop()))

	app := fiber.New()
	require.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app
}

func TestHandleDetect(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/detect?q=tomatoe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var res DetectResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Matched)
	assert.Equal(t, "tomato", res.Text)
	assert.Equal(t, "produce_vegetables", res.Category)
}

func TestHandleDetect_Other(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/detect?q=hammer", nil))
	require.NoError(t, err)

	var res DetectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Matched)
	assert.Equal(t, CategoryOther, res.Category)
	assert.Equal(t, "hammer", res.Text)
}

func TestHandleDetect_MissingQuery(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/detect", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "catalog", NewFeature(nil).Name())
}
