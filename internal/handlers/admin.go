package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/service"
)

type pendingLoanView struct {
	CreatedAt  time.Time `json:"created_at"`
	Username   string    `json:"username"`
	Amount     string    `json:"amount"`
	ID         int64     `json:"id"`
	TermMonths int       `json:"term_months"`
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

// PendingLoans handles GET /api/v1/admin/loans/pending
func (h *Handler) PendingLoans(w http.ResponseWriter, r *http.Request) {
	pending, err := h.loans.PendingLoans(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	views := make([]pendingLoanView, 0, len(pending))
	for _, p := range pending {
		views = append(views, pendingLoanView{
			ID:         p.ID,
			Username:   p.Username,
			Amount:     models.FormatCents(p.AmountCents),
			TermMonths: p.TermMonths,
			CreatedAt:  p.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// DecideLoan handles POST /api/v1/admin/loans/{id}/decision
func (h *Handler) DecideLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathLoanID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrCodeLoanNotFound, "loan not found")
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrCodeInvalidDecision, "invalid request body")
		return
	}

	loan, err := h.loans.Decide(r.Context(), loanID, models.LoanDecision(req.Decision))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info("loan decided", "loan_id", loan.ID, "status", loan.Status)
	respondJSON(w, http.StatusOK, newLoanView(loan))
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.Users(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, newAccountView(&accounts[i]))
	}
	respondJSON(w, http.StatusOK, views)
}
