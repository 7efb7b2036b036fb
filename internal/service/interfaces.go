package service

import (
	"context"

	"github.com/mido/loan-service/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Registrar handles account registration, authentication and user listings
type Registrar interface {
	Register(ctx context.Context, username, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
	Users(ctx context.Context) ([]models.Account, error)
}

// LoanManager handles the loan lifecycle and payment accounting
type LoanManager interface {
	Apply(ctx context.Context, accountID, amountCents int64, termMonths int) (*models.Loan, error)
	Decide(ctx context.Context, loanID int64, decision models.LoanDecision) (*models.Loan, error)
	Pay(ctx context.Context, accountID, loanID, amountCents int64) (*models.Loan, *models.Payment, error)
	LoansFor(ctx context.Context, accountID int64) ([]models.Loan, error)
	ApprovedLoansFor(ctx context.Context, accountID int64) ([]models.Loan, error)
	PendingLoans(ctx context.Context) ([]models.PendingLoan, error)
	PaymentsFor(ctx context.Context, loanID int64) ([]models.Payment, error)
}

// Ensure concrete types implement interfaces
var (
	_ Registrar   = (*AccountService)(nil)
	_ LoanManager = (*LoanService)(nil)
)
