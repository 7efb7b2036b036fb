package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mido/loan-service/internal/middleware"
	"github.com/mido/loan-service/internal/service"
)

type applyLoanRequest struct {
	Amount     string `json:"amount"`
	TermMonths int    `json:"term_months"`
}

type makePaymentRequest struct {
	Amount string `json:"amount"`
}

type paymentResponse struct {
	Loan    loanView    `json:"loan"`
	Payment paymentView `json:"payment"`
}

// ApplyLoan handles POST /api/v1/loans
func (h *Handler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req applyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "invalid request body")
		return
	}

	amountCents, svcErr := parseAmount(req.Amount, service.ErrCodeInvalidAmount)
	if svcErr != nil {
		h.respondServiceError(w, svcErr)
		return
	}

	loan, err := h.loans.Apply(r.Context(), identity.AccountID, amountCents, req.TermMonths)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info("loan application submitted",
		"loan_id", loan.ID,
		"account_id", identity.AccountID,
		"term_months", loan.TermMonths,
	)
	respondJSON(w, http.StatusCreated, newLoanView(loan))
}

// MyLoans handles GET /api/v1/loans
func (h *Handler) MyLoans(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	loans, err := h.loans.LoansFor(r.Context(), identity.AccountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	views := make([]loanView, 0, len(loans))
	for i := range loans {
		views = append(views, newLoanView(&loans[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// MakePayment handles POST /api/v1/loans/{id}/payments
func (h *Handler) MakePayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	loanID, err := pathLoanID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrCodeLoanNotFound, "loan not found")
		return
	}

	var req makePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrCodeInvalidPayment, "invalid request body")
		return
	}

	amountCents, svcErr := parseAmount(req.Amount, service.ErrCodeInvalidPayment)
	if svcErr != nil {
		h.respondServiceError(w, svcErr)
		return
	}

	loan, payment, err := h.loans.Pay(r.Context(), identity.AccountID, loanID, amountCents)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info("payment recorded",
		"loan_id", loan.ID,
		"payment_id", payment.ID,
		"account_id", identity.AccountID,
		"status", loan.Status,
	)
	respondJSON(w, http.StatusCreated, paymentResponse{
		Loan:    newLoanView(loan),
		Payment: newPaymentView(payment),
	})
}
