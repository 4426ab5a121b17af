package handler

import (
	"net/http"

	"github.com/coursecat/coursecat/internal/telemetry"
)

// TelemetryHandler exposes the live telemetry aggregate.
type TelemetryHandler struct {
	store *telemetry.Store
}

// NewTelemetryHandler creates a new TelemetryHandler.
func NewTelemetryHandler(store *telemetry.Store) *TelemetryHandler {
	return &TelemetryHandler{store: store}
}

// Snapshot returns the current aggregate as JSON, in the same shape as
// the persisted telemetry document.
//
// GET /telemetry
func (h *TelemetryHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}
