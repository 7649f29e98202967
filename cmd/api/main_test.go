package main

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeadmin/config"
	"recipeadmin/handlers"
	"recipeadmin/internal/db"
	"recipeadmin/internal/service"
)

func TestNewAppServesFixtureRuns(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", AllowOrigins: "*"},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
	}
	h := handlers.NewApplicationHandler(service.NewRunService(db.NewFixtureStore()), logger, string(cfg.StoreMode()))
	app := newApp(cfg, h, logger)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/runs?page=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok","store":"fixture"}`, string(body))
}
