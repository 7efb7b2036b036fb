package handlers

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.healthChecker.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
		return
	}

	respondJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}
