package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sms-proxy-go/internal/config"
	"sms-proxy-go/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// OPTIONS preflight requests never reach a route; the CORS middleware answers
// them for any path.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, sms *SMSHandler, health *HealthHandler) {
	e.HTTPErrorHandler = newErrorHandler(e)

	e.POST("/send-sms", sms.Send)

	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(
			promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
		))
	}
}

// newErrorHandler returns an HTTPErrorHandler that answers unknown paths and
// method mismatches with a bare 404 — no body, no 405. The frontend only ever
// probes /send-sms and treats anything else as absent; echo's default JSON
// error bodies would change that contract.
func newErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
			_ = c.NoContent(http.StatusNotFound)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
