package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// loanView is the wire representation of a loan. Money renders as
// two-decimal strings; the stored cents never reach the wire raw.
type loanView struct {
	CreatedAt    time.Time `json:"created_at"`
	Amount       string    `json:"amount"`
	Balance      string    `json:"balance"`
	InterestRate string    `json:"interest_rate"`
	Status       string    `json:"status"`
	ID           int64     `json:"id"`
	TermMonths   int       `json:"term_months"`
}

func newLoanView(loan *models.Loan) loanView {
	return loanView{
		ID:           loan.ID,
		Amount:       models.FormatCents(loan.AmountCents),
		Balance:      models.FormatCents(loan.BalanceCents),
		InterestRate: models.FormatRateBps(loan.RateBps),
		Status:       string(loan.Status),
		TermMonths:   loan.TermMonths,
		CreatedAt:    loan.CreatedAt,
	}
}

type paymentView struct {
	CreatedAt time.Time `json:"created_at"`
	Amount    string    `json:"amount"`
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loan_id"`
}

func newPaymentView(payment *models.Payment) paymentView {
	return paymentView{
		ID:        payment.ID,
		LoanID:    payment.LoanID,
		Amount:    models.FormatCents(payment.AmountCents),
		CreatedAt: payment.CreatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

// respondServiceError maps service error codes to HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		respondError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	status := statusForCode(svcErr.Code)
	if status == http.StatusInternalServerError {
		h.logger.Error("service failure", "code", svcErr.Code, "error", err)
		respondError(w, status, service.ErrCodeInternalError, "internal error")
		return
	}

	respondError(w, status, svcErr.Code, svcErr.Message)
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidAmount,
		service.ErrCodeInvalidTerm,
		service.ErrCodeInvalidPayment,
		service.ErrCodePaymentExceedsBalance,
		service.ErrCodeInvalidDecision,
		service.ErrCodeLoanNotPending,
		service.ErrCodeInvalidUsername,
		service.ErrCodeInvalidPassword:
		return http.StatusBadRequest
	case service.ErrCodeLoanNotFound, service.ErrCodeUserNotFound:
		return http.StatusNotFound
	case service.ErrCodeUsernameTaken:
		return http.StatusConflict
	case service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// pathLoanID extracts the {id} route variable
func pathLoanID(r *http.Request) (int64, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return 0, errors.New("missing loan id")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// parseAmount converts a request's decimal amount into cents. A
// malformed value is reported with the given code so the caller sees a
// validation failure, not a 500.
func parseAmount(raw, code string) (int64, *service.ServiceError) {
	cents, err := models.ParseCents(raw)
	if err != nil {
		return 0, &service.ServiceError{
			Code:    code,
			Message: "amount must be a positive number with at most two decimal places",
		}
	}
	return cents, nil
}
