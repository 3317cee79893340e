package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Post("/inquiry", New(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return app
}

func post(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/inquiry", nil), -1)
	require.NoError(t, err)

	return resp
}

func TestLimit(t *testing.T) {
	app := newApp(Config{Limit: 2, Period: time.Minute, Prefix: "test"})

	resp := post(t, app)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, post(t, app).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, post(t, app).StatusCode)
}

func TestDisabled(t *testing.T) {
	app := newApp(Config{})

	for range 5 {
		resp := post(t, app)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}
