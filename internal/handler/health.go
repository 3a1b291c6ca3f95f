package handler

import (
	"net/http"
)

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks,omitempty"`
}

// HandleHealth reports overall health. The provider circuit being open
// degrades the report without failing it; inbound processing still works.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Checks: map[string]ComponentHealth{
			"engine": {Status: "healthy"},
		},
	}

	if h.sender != nil {
		if h.sender.IsCircuitOpen() {
			resp.Status = "degraded"
			resp.Checks["whatsapp"] = ComponentHealth{
				Status:  "unhealthy",
				Message: "send circuit open",
			}
		} else {
			resp.Checks["whatsapp"] = ComponentHealth{Status: "healthy"}
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// HandleReadiness reports whether the service can take traffic.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// HandleLiveness reports that the process is alive.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
