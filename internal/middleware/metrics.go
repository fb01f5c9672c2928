package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"sms-proxy-go/internal/metrics"
)

// MetricsMiddleware returns an Echo middleware that records Prometheus metrics
// for each inbound request. Register it ahead of the CORS middleware so the
// OPTIONS preflights it short-circuits still show up in the request counts;
// preflight volume is the first place a misbehaving frontend shows.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()

			err := next(c)

			// When a handler returns an *echo.HTTPError the response has not
			// been written yet; take the code from the error so 404s and
			// relayed upstream statuses on /send-sms are labeled correctly.
			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}

			method := metrics.NormalizeMethod(c.Request().Method)
			code := strconv.Itoa(status)
			path := metrics.NormalizePath(c.Request().URL.Path)

			m.RequestsTotal.WithLabelValues(method, code, path).Inc()
			m.RequestDuration.WithLabelValues(method, code, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
