package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"ecomstore/internal/metrics"
)

// Metrics records request count and latency per route template.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Resolve the status now; the error handler ignores committed responses later.
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request().Method,
			route,
			strconv.Itoa(c.Response().Status),
			time.Since(start),
		)
		return err
	}
}
