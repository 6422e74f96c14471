package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correlationApp(seen *string) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		*seen = CorrelationIDFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestCorrelationIDPropagatesIncomingHeader(t *testing.T) {
	var seen string
	app := correlationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "abc-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(CorrelationHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestCorrelationIDFallsBackToRequestID(t *testing.T) {
	var seen string
	app := correlationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-7")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-7", resp.Header.Get(CorrelationHeader))
}

func TestCorrelationIDGeneratesWhenMissingOrOversized(t *testing.T) {
	var seen string
	app := correlationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, strings.Repeat("x", maxCorrelationLen+1))

	resp, err := app.Test(req)
	require.NoError(t, err)

	generated := resp.Header.Get(CorrelationHeader)
	_, parseErr := uuid.Parse(generated)
	require.NoError(t, parseErr)
	assert.Equal(t, generated, seen)
}

func TestContextWithCorrelationIgnoresBlank(t *testing.T) {
	ctx := ContextWithCorrelation(nil, "  ")
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Equal(t, "id", CorrelationIDFromContext(ContextWithCorrelation(ctx, " id ")))
}
