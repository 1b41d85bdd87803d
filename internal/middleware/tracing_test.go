package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingMiddlewareWrapsRequests(t *testing.T) {
	app := fiber.New()
	app.Use(TracingMiddleware())

	var sawTraceLocal bool
	app.Get("/ping", func(c *fiber.Ctx) error {
		_, sawTraceLocal = c.Locals("traceID").(string)
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Each request carries its trace ID back so clients can quote it.
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	assert.True(t, sawTraceLocal)
}
