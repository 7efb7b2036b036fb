package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/models"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	FindByID(ctx context.Context, id int64) (*models.Loan, error)
	// FindForUpdate retrieves a loan and locks its row for the duration
	// of the surrounding transaction.
	FindForUpdate(ctx context.Context, id int64) (*models.Loan, error)
	// FindApprovedForUpdate retrieves a loan only if it is owned by the
	// given account and currently approved, locking its row.
	FindApprovedForUpdate(ctx context.Context, accountID, loanID int64) (*models.Loan, error)
	ListByAccount(ctx context.Context, accountID int64) ([]models.Loan, error)
	ListApprovedByAccount(ctx context.Context, accountID int64) ([]models.Loan, error)
	ListPending(ctx context.Context) ([]models.PendingLoan, error)
	UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error
	// AdjustBalance applies a delta to the loan's outstanding balance.
	AdjustBalance(ctx context.Context, id int64, deltaCents int64) error
}

const loanColumns = `id, account_id, amount_cents, term_months, rate_bps, status, balance_cents, created_at`

// loanRepository implements LoanRepository
type loanRepository struct {
	q db.Querier
}

// NewLoanRepository creates a new LoanRepository bound to the given querier
func NewLoanRepository(q db.Querier) LoanRepository {
	return &loanRepository{q: q}
}

// Create inserts a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (account_id, amount_cents, term_months, rate_bps, status, balance_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		loan.AccountID,
		loan.AmountCents,
		loan.TermMonths,
		loan.RateBps,
		loan.Status,
		loan.BalanceCents,
	).Scan(&loan.ID, &loan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

// FindByID retrieves a loan by its id
func (r *loanRepository) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return r.scanLoan(r.q.QueryRowContext(ctx, query, id))
}

// FindForUpdate retrieves a loan by id with a row lock
func (r *loanRepository) FindForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	return r.scanLoan(r.q.QueryRowContext(ctx, query, id))
}

// FindApprovedForUpdate retrieves an approved loan owned by accountID with a row lock
func (r *loanRepository) FindApprovedForUpdate(ctx context.Context, accountID, loanID int64) (*models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1 AND account_id = $2 AND status = $3
		FOR UPDATE
	`
	return r.scanLoan(r.q.QueryRowContext(ctx, query, loanID, accountID, models.LoanStatusApproved))
}

// ListByAccount retrieves all loans owned by the account, newest first
func (r *loanRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	return r.collectLoans(rows)
}

// ListApprovedByAccount retrieves the account's loans that can receive payments
func (r *loanRepository) ListApprovedByAccount(ctx context.Context, accountID int64) ([]models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, accountID, models.LoanStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved loans: %w", err)
	}
	defer rows.Close()

	return r.collectLoans(rows)
}

// ListPending retrieves all pending applications joined with the applicant's username
func (r *loanRepository) ListPending(ctx context.Context) ([]models.PendingLoan, error) {
	query := `
		SELECT l.id, a.username, l.amount_cents, l.term_months, l.created_at
		FROM loans l
		JOIN accounts a ON l.account_id = a.id
		WHERE l.status = $1
		ORDER BY l.created_at
	`

	rows, err := r.q.QueryContext(ctx, query, models.LoanStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending loans: %w", err)
	}
	defer rows.Close()

	var pending []models.PendingLoan
	for rows.Next() {
		var p models.PendingLoan
		if err := rows.Scan(&p.ID, &p.Username, &p.AmountCents, &p.TermMonths, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending loan: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending loans: %w", err)
	}

	return pending, nil
}

// UpdateStatus sets the loan's lifecycle status
func (r *loanRepository) UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error {
	query := `UPDATE loans SET status = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update loan status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// AdjustBalance applies a delta to the loan's outstanding balance
func (r *loanRepository) AdjustBalance(ctx context.Context, id int64, deltaCents int64) error {
	query := `UPDATE loans SET balance_cents = balance_cents + $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, deltaCents)
	if err != nil {
		return fmt.Errorf("failed to adjust loan balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *loanRepository) scanLoan(row *sql.Row) (*models.Loan, error) {
	var loan models.Loan
	err := row.Scan(
		&loan.ID,
		&loan.AccountID,
		&loan.AmountCents,
		&loan.TermMonths,
		&loan.RateBps,
		&loan.Status,
		&loan.BalanceCents,
		&loan.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}

	return &loan, nil
}

func (r *loanRepository) collectLoans(rows *sql.Rows) ([]models.Loan, error) {
	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.AccountID,
			&loan.AmountCents,
			&loan.TermMonths,
			&loan.RateBps,
			&loan.Status,
			&loan.BalanceCents,
			&loan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}
