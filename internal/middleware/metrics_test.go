package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/metrics"
)

func TestMetrics_RecordsResolvedStatus(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(zerolog.Nop()).Handle
	e.Use(Metrics)
	e.GET("/things/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return apperrors.ErrProductNotFound
		}
		return c.NoContent(http.StatusNoContent)
	})

	okBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "204"))
	nfBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "404"))

	for _, id := range []string{"a", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "204")))
	assert.Equal(t, nfBefore+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "404")))
}
