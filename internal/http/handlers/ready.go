package handlers

import (
	"net/http"

	"service-fulfillment/internal/logx"
)

// ReadyGate reports whether one guarded dependency can take traffic.
type ReadyGate struct {
	Name      string
	Available func() bool
}

// ReadyHandler answers GET /readyz: 200 while every gate is available, 503
// with the blocked gate names otherwise. With no gates configured readiness
// equals liveness.
type ReadyHandler struct {
	gates  []ReadyGate
	logger logx.Logger
}

// NewReadyHandler creates a ReadyHandler over the given gates.
func NewReadyHandler(logger logx.Logger, gates ...ReadyGate) *ReadyHandler {
	return &ReadyHandler{gates: gates, logger: logger}
}

type readyResponse struct {
	Status  string   `json:"status"`
	Blocked []string `json:"blocked,omitempty"`
}

// Ready handles GET /readyz.
func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var blocked []string
	for _, g := range h.gates {
		if g.Available != nil && !g.Available() {
			blocked = append(blocked, g.Name)
		}
	}
	if len(blocked) > 0 {
		writeJSON(h.logger, w, r, http.StatusServiceUnavailable,
			readyResponse{Status: "unavailable", Blocked: blocked})
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, readyResponse{Status: "ready"})
}
