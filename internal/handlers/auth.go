package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountView struct {
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	ID        int64     `json:"id"`
	IsAdmin   bool      `json:"is_admin"`
}

func newAccountView(account *models.Account) accountView {
	return accountView{
		ID:        account.ID,
		Username:  account.Username,
		IsAdmin:   account.IsAdmin,
		CreatedAt: account.CreatedAt,
	}
}

type loginResponse struct {
	Token   string      `json:"token"`
	Account accountView `json:"account"`
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrCodeInvalidUsername, "invalid request body")
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info("account registered", "account_id", account.ID, "username", account.Username)
	respondJSON(w, http.StatusCreated, newAccountView(account))
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrCodeInvalidCredentials, "invalid request body")
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(account)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	h.logger.Info("login", "account_id", account.ID, "username", account.Username)
	respondJSON(w, http.StatusOK, loginResponse{
		Token:   token,
		Account: newAccountView(account),
	})
}
