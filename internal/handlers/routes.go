package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mido/loan-service/internal/auth"
	"github.com/mido/loan-service/internal/config"
	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/integrations/centralbank"
	"github.com/mido/loan-service/internal/middleware"
	"github.com/mido/loan-service/internal/repository"
	"github.com/mido/loan-service/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	accountService := service.NewAccountService(database)
	loanService := service.NewLoanService(database)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	rates := centralbank.NewClient(&cfg.RateFeed, logger)

	handler := NewHandler(accountService, loanService, tokens, rates, database, logger)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(logger))

	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Authenticate(tokens, logger))
	protected.HandleFunc("/loans", handler.ApplyLoan).Methods(http.MethodPost)
	protected.HandleFunc("/loans", handler.MyLoans).Methods(http.MethodGet)
	protected.HandleFunc("/loans/{id:[0-9]+}/payments", handler.MakePayment).Methods(http.MethodPost)

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin())
	admin.HandleFunc("/loans/pending", handler.PendingLoans).Methods(http.MethodGet)
	admin.HandleFunc("/loans/{id:[0-9]+}/decision", handler.DecideLoan).Methods(http.MethodPost)
	admin.HandleFunc("/users", handler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/rates/reference", handler.ReferenceRate).Methods(http.MethodGet)

	var finalHandler http.Handler = r

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	return finalHandler
}
