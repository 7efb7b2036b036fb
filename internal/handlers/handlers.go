// Package handlers implements HTTP handlers for the loan service API.
package handlers

import (
	"context"
	"log/slog"

	"github.com/mido/loan-service/internal/auth"
	"github.com/mido/loan-service/internal/service"
)

// ReferenceRateSource fetches the central bank reference rate. The value
// is informational; loan pricing is a pure function of the term.
type ReferenceRateSource interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// Handler bundles the service dependencies behind the HTTP surface
type Handler struct {
	accounts      service.Registrar
	loans         service.LoanManager
	tokens        *auth.TokenManager
	rates         ReferenceRateSource
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	accounts service.Registrar,
	loans service.LoanManager,
	tokens *auth.TokenManager,
	rates ReferenceRateSource,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:      accounts,
		loans:         loans,
		tokens:        tokens,
		rates:         rates,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
