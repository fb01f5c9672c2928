// Package client provides the upstream HTTP client for the Mobivate API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"sms-proxy-go/internal/config"
	"sms-proxy-go/internal/metrics"
	"sms-proxy-go/internal/model"
)

// MobivateClient sends requests to the upstream Mobivate API.
type MobivateClient struct {
	httpClient *http.Client
	sendURL    string
	apiToken   string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewMobivateClient creates a MobivateClient with connection pooling and a
// bounded timeout. The metrics parameter is optional; pass nil to disable
// upstream metrics recording.
func NewMobivateClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *MobivateClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &MobivateClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		sendURL:  cfg.Upstream.SendURL,
		apiToken: cfg.Mobivate.APIToken,
		logger:   logger.With("component", "mobivate_client"),
		metrics:  m,
	}
}

// Send posts a JSON payload to the configured send endpoint with the bearer
// credential injected and returns the upstream status and fully-read body.
// Non-2xx upstream statuses are not errors at this layer; only transport
// failures are.
func (c *MobivateClient) Send(ctx context.Context, payload []byte) (*model.UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	c.logger.Debug("upstream request",
		"url", c.sendURL,
		"bytes", len(payload),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Latency is observed for every attempt, including ones whose body read
	// fails below.
	if c.metrics != nil {
		c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if c.metrics != nil {
		c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
