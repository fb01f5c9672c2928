package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCORS_AddsOriginHeader(t *testing.T) {
	e := echo.New()
	e.Use(CORS())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if v := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); v != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", v, "*")
	}
}

func TestCORS_Preflight(t *testing.T) {
	e := echo.New()
	e.Use(CORS())
	e.POST("/send-sms", func(c echo.Context) error {
		t.Error("handler should not run for a preflight request")
		return nil
	})

	// Preflight is answered for any path, registered or not.
	for _, path := range []string{"/send-sms", "/nowhere"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowMethods); v != "POST, OPTIONS" {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", v, "POST, OPTIONS")
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); v != "Content-Type, Authorization" {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", v, "Content-Type, Authorization")
			}
		})
	}
}

func TestCORS_StripsHopByHop(t *testing.T) {
	e := echo.New()
	e.Use(CORS())

	var gotConnection string
	e.GET("/test", func(c echo.Context) error {
		gotConnection = c.Request().Header.Get("Connection")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Proxy-Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if gotConnection != "" {
		t.Errorf("Connection header should be stripped, got %q", gotConnection)
	}
}
