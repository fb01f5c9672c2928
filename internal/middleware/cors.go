package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Preflight response headers. The browser-facing contract is a 200 (not 204)
// with exactly these values, so preflight is answered here instead of with
// echo's CORS middleware.
const (
	allowMethods = "POST, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// hopByHopHeaders are headers that should not be forwarded by proxies.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// CORS returns an Echo middleware that marks every response as readable from
// any origin, answers OPTIONS preflight requests on any path, and strips
// hop-by-hop headers from incoming requests.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, h := range hopByHopHeaders {
				c.Request().Header.Del(h)
			}

			res := c.Response().Header()
			res.Set(echo.HeaderAccessControlAllowOrigin, "*")

			if c.Request().Method == http.MethodOptions {
				res.Set(echo.HeaderAccessControlAllowMethods, allowMethods)
				res.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
