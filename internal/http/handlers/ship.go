package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
)

// ShipHandler serves the fulfillment run endpoints.
type ShipHandler struct {
	usecase fulfillmentUsecase
	jobs    printJobUsecase
	logger  logx.Logger
}

// NewShipHandler creates a new ShipHandler.
func NewShipHandler(logger logx.Logger, uc fulfillmentUsecase, jobs printJobUsecase) *ShipHandler {
	return &ShipHandler{usecase: uc, jobs: jobs, logger: logger}
}

// Ship handles POST /ship. The call is synchronous: it returns the terminal
// run. A failed run answers with the failure's status code and the run in the
// body, so the caller sees state and fail_reason without a second request.
func (h *ShipHandler) Ship(w http.ResponseWriter, r *http.Request) {
	var req shipRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	run, err := h.usecase.Ship(r.Context(), req.OrderID, req.CorrelationID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, runToResponse(*run))
	case run != nil:
		writeJSON(h.logger, w, r, statusFor(err), runToResponse(*run))
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, statusFor(err), "ship failed")
	}
}

// Status handles GET /ship/{orderID}.
func (h *ShipHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))

	run, err := h.usecase.Status(r.Context(), orderID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, runToResponse(*run))
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "run not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Override handles POST /ship/{orderID}/override: an operator force-confirms
// a failed run.
func (h *ShipHandler) Override(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	var req overrideRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	run, err := h.usecase.OverrideConfirm(r.Context(), orderID, req.Operator)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, runToResponse(*run))
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "run not found")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "override applies to failed runs with a shipment")
	default:
		writeError(h.logger, w, r, statusFor(err), "override failed")
	}
}

// PrintJobs handles GET /ship/{orderID}/print-jobs and lists the run's label
// pieces.
func (h *ShipHandler) PrintJobs(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if orderID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	}

	list, err := h.jobs.ListByKey(r.Context(), domain.IdempotencyKeyFor(orderID))
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, printJobsToResponse(list))
}
