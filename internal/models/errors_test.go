package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{"forbidden", NewForbiddenError("nope"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("Sermon", 5), fiber.StatusNotFound},
		{"conflict", NewConflictError("duplicate"), fiber.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

// Internal error responses must not echo the wrapped cause, which can carry
// connection strings and filesystem paths.
func TestRespondWithErrorHidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		cause := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(cause))
	})

	resp, err := app.Test(newGetRequest(t, "/boom"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "10.0.0.5")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, ErrCodeInternal, body.Code)
	assert.Empty(t, body.Details)
}

func newGetRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	return req
}
