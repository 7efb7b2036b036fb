package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/repository"
)

// LoanService implements the loan lifecycle:
//
//	pending --(admin approve)--> approved
//	pending --(admin reject)---> rejected
//	approved --(payment brings balance to 0)--> paid
//
// approved, rejected and paid are terminal for the borrower; pending and
// rejected loans cannot receive payments.
type LoanService struct {
	db *db.DB
}

// NewLoanService creates a new LoanService
func NewLoanService(database *db.DB) *LoanService {
	return &LoanService{db: database}
}

// Apply creates a loan application. Amount and term are validated before
// any mutation; the loan starts pending with balance equal to the
// principal and a rate computed from the term. It is never auto-approved.
func (s *LoanService) Apply(ctx context.Context, accountID, amountCents int64, termMonths int) (*models.Loan, error) {
	return s.performApply(ctx, repository.NewLoanRepository(s.db), accountID, amountCents, termMonths)
}

// performApply contains the core application business logic
func (s *LoanService) performApply(
	ctx context.Context,
	loans repository.LoanRepository,
	accountID, amountCents int64,
	termMonths int,
) (*models.Loan, error) {
	if amountCents <= 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "loan amount must be positive",
		}
	}
	if termMonths <= 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTerm,
			Message: "loan term must be positive",
		}
	}

	loan := &models.Loan{
		AccountID:    accountID,
		AmountCents:  amountCents,
		TermMonths:   termMonths,
		RateBps:      RateBpsFor(termMonths),
		Status:       models.LoanStatusPending,
		BalanceCents: amountCents,
	}

	if err := loans.Create(ctx, loan); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to create loan",
			Err:     err,
		}
	}

	return loan, nil
}

// Decide settles a pending application. Deciding a loan that is no
// longer pending fails instead of overwriting the earlier ruling.
func (s *LoanService) Decide(ctx context.Context, loanID int64, decision models.LoanDecision) (*models.Loan, error) {
	if decision != models.LoanDecisionApprove && decision != models.LoanDecisionReject {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidDecision,
			Message: fmt.Sprintf("unknown decision %q", decision),
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to start transaction",
			Err:     err,
		}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	loan, err := s.performDecision(ctx, repository.NewLoanRepository(tx), loanID, decision)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to commit transaction",
			Err:     err,
		}
	}

	return loan, nil
}

// performDecision contains the core decision business logic
func (s *LoanService) performDecision(
	ctx context.Context,
	loans repository.LoanRepository,
	loanID int64,
	decision models.LoanDecision,
) (*models.Loan, error) {
	loan, err := loans.FindForUpdate(ctx, loanID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeLoanNotFound,
			Message: "loan not found",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to load loan",
			Err:     err,
		}
	}

	if loan.Status != models.LoanStatusPending {
		return nil, &ServiceError{
			Code:    ErrCodeLoanNotPending,
			Message: fmt.Sprintf("loan is already %s", loan.Status),
		}
	}

	status := models.LoanStatusApproved
	if decision == models.LoanDecisionReject {
		status = models.LoanStatusRejected
	}

	if err := loans.UpdateStatus(ctx, loan.ID, status); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to update loan status",
			Err:     err,
		}
	}

	loan.Status = status
	return loan, nil
}

// Pay applies a payment to one of the caller's approved loans. The
// balance decrement, the ledger append and the optional transition to
// paid happen in one transaction: either all take effect or none do.
func (s *LoanService) Pay(ctx context.Context, accountID, loanID, amountCents int64) (*models.Loan, *models.Payment, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to start transaction",
			Err:     err,
		}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	loan, payment, err := s.performPayment(
		ctx,
		repository.NewLoanRepository(tx),
		repository.NewPaymentRepository(tx),
		accountID, loanID, amountCents,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to commit transaction",
			Err:     err,
		}
	}

	return loan, payment, nil
}

// performPayment contains the core payment business logic. Checks run in
// a fixed order before any mutation: the loan must be in the caller's
// approved set, the amount must be positive, and the amount must not
// exceed the outstanding balance.
func (s *LoanService) performPayment(
	ctx context.Context,
	loans repository.LoanRepository,
	payments repository.PaymentRepository,
	accountID, loanID, amountCents int64,
) (*models.Loan, *models.Payment, error) {
	loan, err := loans.FindApprovedForUpdate(ctx, accountID, loanID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, &ServiceError{
			Code:    ErrCodeLoanNotFound,
			Message: "no approved loan with that id",
		}
	}
	if err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to load loan",
			Err:     err,
		}
	}

	if amountCents <= 0 {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInvalidPayment,
			Message: "payment amount must be positive",
		}
	}
	if amountCents > loan.BalanceCents {
		return nil, nil, &ServiceError{
			Code:    ErrCodePaymentExceedsBalance,
			Message: "payment exceeds loan balance",
		}
	}

	if err := loans.AdjustBalance(ctx, loan.ID, -amountCents); err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to adjust balance",
			Err:     err,
		}
	}

	payment := &models.Payment{
		LoanID:      loan.ID,
		AmountCents: amountCents,
	}
	if err := payments.Create(ctx, payment); err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to record payment",
			Err:     err,
		}
	}

	loan.BalanceCents -= amountCents
	if loan.BalanceCents == 0 {
		if err := loans.UpdateStatus(ctx, loan.ID, models.LoanStatusPaid); err != nil {
			return nil, nil, &ServiceError{
				Code:    ErrCodeInternalError,
				Message: "failed to mark loan paid",
				Err:     err,
			}
		}
		loan.Status = models.LoanStatusPaid
	}

	return loan, payment, nil
}

// LoansFor lists the account's loans, newest first
func (s *LoanService) LoansFor(ctx context.Context, accountID int64) ([]models.Loan, error) {
	loans, err := repository.NewLoanRepository(s.db).ListByAccount(ctx, accountID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list loans",
			Err:     err,
		}
	}
	return loans, nil
}

// ApprovedLoansFor lists the account's loans that can receive payments
func (s *LoanService) ApprovedLoansFor(ctx context.Context, accountID int64) ([]models.Loan, error) {
	loans, err := repository.NewLoanRepository(s.db).ListApprovedByAccount(ctx, accountID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list approved loans",
			Err:     err,
		}
	}
	return loans, nil
}

// PendingLoans lists all pending applications with their applicants
func (s *LoanService) PendingLoans(ctx context.Context) ([]models.PendingLoan, error) {
	pending, err := repository.NewLoanRepository(s.db).ListPending(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list pending loans",
			Err:     err,
		}
	}
	return pending, nil
}

// PaymentsFor lists the ledger entries recorded against a loan
func (s *LoanService) PaymentsFor(ctx context.Context, loanID int64) ([]models.Payment, error) {
	payments, err := repository.NewPaymentRepository(s.db).ListByLoan(ctx, loanID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list payments",
			Err:     err,
		}
	}
	return payments, nil
}
