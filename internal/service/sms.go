// Package service implements the core forwarding logic for SMS send requests.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"sms-proxy-go/internal/client"
)

// DecodeError reports a payload that could not be interpreted as JSON: either
// the inbound request body or an upstream success body.
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string { return e.Msg }

// TransportError reports a network-level failure reaching the upstream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamHTTPError reports a non-2xx upstream response. Body is always valid
// JSON: the upstream body itself when it parses, otherwise an {"error": ...}
// wrapper around the raw upstream text.
type UpstreamHTTPError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// SMSService forwards send requests to the Mobivate API and classifies the outcome.
type SMSService struct {
	client *client.MobivateClient
	logger *slog.Logger
}

// NewSMSService creates an SMSService.
func NewSMSService(c *client.MobivateClient, logger *slog.Logger) *SMSService {
	return &SMSService{
		client: c,
		logger: logger.With("component", "sms_service"),
	}
}

// Send decodes body as JSON, forwards it upstream and returns the upstream's
// JSON response. The payload is re-serialized on the way through, so
// whitespace and key order may differ from the original while staying
// semantically equal.
//
// Failures are returned as exactly one of three variants: *DecodeError for
// bodies that are not JSON, *TransportError for network failures, and
// *UpstreamHTTPError for non-2xx upstream responses.
func (s *SMSService) Send(ctx context.Context, body []byte) (json.RawMessage, error) {
	payload, err := canonicalize(body)
	if err != nil {
		return nil, &DecodeError{Msg: fmt.Sprintf("decode request body: %v", err)}
	}

	s.logger.Debug("forwarding send request", "bytes", len(payload))

	resp, err := s.client.Send(ctx, payload)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		out, err := canonicalize(resp.Body)
		if err != nil {
			return nil, &DecodeError{Msg: fmt.Sprintf("decode upstream response: %v", err)}
		}
		return out, nil
	}

	return nil, &UpstreamHTTPError{
		StatusCode: resp.StatusCode,
		Body:       errorBody(resp.Body),
	}
}

// canonicalize re-serializes raw JSON through a generic decode/encode pass.
// It rejects anything that is not a single valid JSON value, including an
// empty body. Numbers are decoded as json.Number so message IDs and references
// wider than 53 bits survive the round trip digit-for-digit.
func canonicalize(raw []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON value")
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// errorBody returns an upstream error body as JSON, passing it through when it
// already parses and wrapping the raw text in {"error": ...} otherwise.
func errorBody(raw []byte) json.RawMessage {
	if out, err := canonicalize(raw); err == nil {
		return out
	}
	wrapped, _ := json.Marshal(map[string]string{"error": string(raw)})
	return wrapped
}
