package handlers

import (
	"errors"
	"net/http"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/logx"
)

// PrintJobHandler serves the operator endpoints for print jobs.
type PrintJobHandler struct {
	usecase printJobUsecase
	logger  logx.Logger
}

// NewPrintJobHandler creates a new PrintJobHandler.
func NewPrintJobHandler(logger logx.Logger, uc printJobUsecase) *PrintJobHandler {
	return &PrintJobHandler{usecase: uc, logger: logger}
}

// GetByID handles GET /print-jobs/{id}.
func (h *PrintJobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.usecase.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, printJobToResponse(*job))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "print job not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Retry handles POST /print-jobs/{id}/retry: requeues an exhausted job and
// drives one fresh print cycle.
func (h *PrintJobHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.usecase.Retry(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, printJobToResponse(*job))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "print job not found")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "only exhausted jobs can be retried")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
