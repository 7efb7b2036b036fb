package handlers

import (
	"net/http"

	"github.com/mido/loan-service/internal/service"
)

type referenceRateResponse struct {
	KeyRate float64 `json:"key_rate"`
}

// ReferenceRate handles GET /api/v1/admin/rates/reference. The value is
// fetched from the central bank feed and is informational only.
func (h *Handler) ReferenceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch reference rate", "error", err)
		respondError(w, http.StatusBadGateway, service.ErrCodeInternalError, "reference rate unavailable")
		return
	}

	respondJSON(w, http.StatusOK, referenceRateResponse{KeyRate: rate})
}
