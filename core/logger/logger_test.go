package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		warnOn bool
		infoOn bool
	}{
		{"Debug console", Config{Level: "debug", Format: "console"}, true, true},
		{"Info json", Config{Level: "info", Format: "json"}, true, true},
		{"Warn json", Config{Level: "warn", Format: "json"}, true, false},
		{"Unknown level falls back to info", Config{Level: "loud"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.warnOn, l.Core().Enabled(zapcore.WarnLevel))
			assert.Equal(t, tt.infoOn, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		WithRayID(base, c).Info("hello")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ray-123", logs.All()[0].ContextMap()["ray_id"])
}

func TestWithUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithUser(base, "u1").Info("tagged")
	WithUser(base, "").Info("untagged")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "u1", logs.All()[0].ContextMap()["user_id"])
	_, ok := logs.All()[1].ContextMap()["user_id"]
	assert.False(t, ok)
}
