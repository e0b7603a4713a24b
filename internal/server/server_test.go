package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autix_backend/internal/apperr"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "API is healthy", env.Message)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

func TestDebugRoutesOnlyInDevelopment(t *testing.T) {
	api := newTestAPI(t)

	status, _ := api.do(http.MethodGet, "/api/debug/db", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t)

	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return apperr.Wrap(errors.New("pq: connection refused"), "list cars")
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperr.Validation("Make is required", "Year is required")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.ErrUnprocessableEntity
	})
	api := &testAPI{t: t, app: app}

	status, env := api.do(http.MethodGet, "/internal", nil, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", env.Message)
	assert.Empty(t, env.Errors)

	status, env = api.do(http.MethodGet, "/validation", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []string{"Make is required", "Year is required"}, env.Errors)

	status, env = api.do(http.MethodGet, "/fiber", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
}
