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
		levels map[zapcore.Level]bool
	}{
		{"Debug", Config{Level: "debug", Format: "console"}, map[zapcore.Level]bool{zapcore.DebugLevel: true}},
		{"Info", Config{Level: "info", Format: "json"}, map[zapcore.Level]bool{zapcore.DebugLevel: false, zapcore.InfoLevel: true}},
		{"Warn", Config{Level: "warn"}, map[zapcore.Level]bool{zapcore.InfoLevel: false, zapcore.WarnLevel: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			for lvl, want := range tt.levels {
				assert.Equal(t, want, l.Core().Enabled(lvl), lvl.String())
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "abc-123")
		WithRayID(base, c).Info("handled")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc-123", logs.All()[0].ContextMap()["ray_id"])
}
