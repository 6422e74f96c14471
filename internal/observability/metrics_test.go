package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesQueryCounters(t *testing.T) {
	QueryOperations().WithLabelValues("Course", "get_all", "ok").Inc()

	app := fiber.New()
	app.Get(MetricsPath, MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", MetricsPath, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `query_operations_total{model="Course",operation="get_all",outcome="ok"}`)
}
