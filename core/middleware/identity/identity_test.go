package identity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"shoplist/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		u, ok := User(c)
		if !ok {
			return c.SendStatus(500)
		}
		return c.JSON(u)
	})

	t.Run("Resolved", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderUserID, "u1")
		req.Header.Set(HeaderUserEmail, " U1@X.com ")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)

		var u reconcile.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
		assert.Equal(t, reconcile.User{ID: "u1", Email: "u1@x.com"}, u)
	})

	t.Run("Missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
