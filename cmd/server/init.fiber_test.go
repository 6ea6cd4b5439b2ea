package main

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"engagement_survey/config"
	apirouter "engagement_survey/internal/api/router"
	"engagement_survey/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "panic", Format: "text", Output: "none"})
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Configuration{CORS_Origins: "*", RateLimit_Enabled: false}
	app, err := InitFiberApp(cfg, func(v1 fiber.Router, _ *apirouter.Router) error {
		v1.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
		v1.Get("/boom", func(c fiber.Ctx) error { panic("boom") })
		return nil
	})
	require.NoError(t, err)
	return app
}

func body(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestInitFiberApp_RequestIDAndHeaders(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestInitFiberApp_ErrorEnvelope(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	out := body(t, resp.Body)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "DB_002", out["code"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "SYS_001", body(t, resp.Body)["code"])
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, splitOrigins("https://a.io, https://b.io"))
}
