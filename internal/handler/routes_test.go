package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"sms-proxy-go/internal/client"
	"sms-proxy-go/internal/config"
	"sms-proxy-go/internal/metrics"
	"sms-proxy-go/internal/middleware"
	"sms-proxy-go/internal/service"
)

// newTestEcho assembles the server the way main does: CORS middleware, custom
// error handler, and all routes.
func newTestEcho(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewSMSService(client.NewMobivateClient(cfg, logger, nil), logger)

	e := echo.New()
	e.Use(middleware.CORS())
	RegisterRoutes(e, cfg, metrics.New(), NewSMSHandler(svc, logger), NewHealthHandler(cfg, "test"))
	return e
}

func testWiringConfig(sendURL string) *config.Config {
	return &config.Config{
		Mobivate: config.MobivateConfig{APIToken: "test-token"},
		Upstream: config.UpstreamConfig{
			SendURL:         sendURL,
			TimeoutSeconds:  10,
			IdleConnections: 10,
		},
	}
}

func TestRegisterRoutes_Wiring(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"sent"}`))
	}))
	defer upstream.Close()

	e := newTestEcho(t, testWiringConfig(upstream.URL))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"POST /send-sms", http.MethodPost, "/send-sms", `{"recipient":"447700900000"}`, http.StatusOK},
		{"GET /healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"GET /proxy/status", http.MethodGet, "/proxy/status", "", http.StatusOK},
		{"GET /send-sms returns 404", http.MethodGet, "/send-sms", "", http.StatusNotFound},
		{"POST /other-path returns 404", http.MethodPost, "/other-path", `{}`, http.StatusNotFound},
		{"GET /unknown returns 404", http.MethodGet, "/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reader io.Reader = http.NoBody
			if tt.body != "" {
				reader = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, reader)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
			}
		})
	}
}

func TestRegisterRoutes_NotFoundHasNoBody(t *testing.T) {
	e := newTestEcho(t, testWiringConfig("https://api.mobivatebulksms.com/send/single"))

	req := httptest.NewRequest(http.MethodPost, "/other-path", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestRegisterRoutes_PreflightAnyPath(t *testing.T) {
	e := newTestEcho(t, testWiringConfig("https://api.mobivatebulksms.com/send/single"))

	for _, path := range []string{"/send-sms", "/anything", "/"} {
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
			if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != "POST, OPTIONS" {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, "POST, OPTIONS")
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); got != "Content-Type, Authorization" {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", got, "Content-Type, Authorization")
			}
		})
	}
}

func TestRegisterRoutes_MetricsRoute(t *testing.T) {
	cfg := testWiringConfig("https://api.mobivatebulksms.com/send/single")
	cfg.Metrics = config.MetricsConfig{Enabled: true, Path: "/metrics"}

	e := newTestEcho(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected Prometheus exposition output, got empty body")
	}
}

func TestRegisterRoutes_MetricsDisabled(t *testing.T) {
	e := newTestEcho(t, testWiringConfig("https://api.mobivatebulksms.com/send/single"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
