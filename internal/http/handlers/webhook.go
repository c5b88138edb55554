package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/gateway/callback"
	"service-fulfillment/internal/logx"
)

// WebhookHandler accepts carrier tracking events on POST /carrier/webhook.
// The body is authenticated with the same HMAC scheme the outgoing callbacks
// use; an unverifiable signature is answered 401 before the body is parsed.
type WebhookHandler struct {
	usecase fulfillmentUsecase
	secret  []byte
	logger  logx.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(logger logx.Logger, uc fulfillmentUsecase, secret string) *WebhookHandler {
	return &WebhookHandler{usecase: uc, secret: []byte(secret), logger: logger}
}

// Receive handles POST /carrier/webhook.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bodyLimit))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "unreadable body")
		return
	}
	if !callback.Verify(h.secret, body, r.Header.Get(callback.SignatureHeader)) {
		writeError(h.logger, w, r, http.StatusUnauthorized, "bad signature")
		return
	}

	var ev trackingEventRequest
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid json")
		return
	}

	err = h.usecase.RecordTracking(r.Context(), ev.OrderID, ev.TrackingNumber, ev.Status, ev.OccurredAt)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "run not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
