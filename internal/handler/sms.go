package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"sms-proxy-go/internal/model"
	"sms-proxy-go/internal/service"
)

// SMSHandler serves the send-sms proxy endpoint.
type SMSHandler struct {
	service *service.SMSService
	logger  *slog.Logger
}

// NewSMSHandler creates an SMSHandler.
func NewSMSHandler(svc *service.SMSService, logger *slog.Logger) *SMSHandler {
	return &SMSHandler{
		service: svc,
		logger:  logger.With("component", "sms_handler"),
	}
}

// Send handles POST /send-sms: it forwards the JSON body to the upstream send
// endpoint and relays the result.
func (h *SMSHandler) Send(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return h.mapError(c, &service.DecodeError{Msg: "read request body: " + err.Error()})
	}

	out, err := h.service.Send(req.Context(), body)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSONBlob(http.StatusOK, out)
}

// mapError matches the service's error variants onto HTTP responses. Every
// branch answers with a JSON body; no request failure propagates further.
func (h *SMSHandler) mapError(c echo.Context, err error) error {
	var upstreamErr *service.UpstreamHTTPError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.StatusCode == http.StatusUnauthorized {
			// A known credential failure mode: the frontend expects a
			// readable diagnostic with a 200 instead of a blank 401.
			h.logger.Warn("upstream rejected credential, returning key issue diagnostic",
				"path", c.Request().URL.Path,
			)
			return c.JSON(http.StatusOK, model.NewKeyIssueResponse())
		}

		h.logger.Error("upstream error",
			"status", upstreamErr.StatusCode,
			"path", c.Request().URL.Path,
		)
		return c.JSONBlob(upstreamErr.StatusCode, upstreamErr.Body)
	}

	// DecodeError and TransportError both surface as a 500 carrying the
	// message, matching the contract the frontend was built against.
	h.logger.Error("send request failed",
		"err", err,
		"path", c.Request().URL.Path,
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": err.Error(),
	})
}
