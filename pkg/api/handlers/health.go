package handlers

import (
	"net/http"

	"github.com/opendap-go/dapserve/internal/dapcore"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the server's dataset ready to answer DAP requests?
type HealthHandler struct {
	ds *dapcore.Dataset
}

// NewHealthHandler creates a new health handler for ds. ds may be nil, in
// which case readiness reports unhealthy.
func NewHealthHandler(ds *dapcore.Dataset) *HealthHandler {
	return &HealthHandler{ds: ds}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. This endpoint is designed
// for Kubernetes liveness probes and should always succeed as long as the
// HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dapserve",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK if a dataset is loaded and declares at least one variable.
// Returns 503 Service Unavailable if the server is not ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ds == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("dataset not loaded"))
		return
	}

	children := h.ds.Children()
	if len(children) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("dataset declares no variables"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"dataset":   h.ds.Name(),
		"variables": len(children),
	}))
}
