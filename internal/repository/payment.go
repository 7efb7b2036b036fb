package repository

import (
	"context"
	"fmt"

	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/models"
)

// PaymentRepository defines the interface for payment ledger access.
// The ledger is append-only: there is no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByLoan(ctx context.Context, loanID int64) ([]models.Payment, error)
	SumByLoan(ctx context.Context, loanID int64) (int64, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	q db.Querier
}

// NewPaymentRepository creates a new PaymentRepository bound to the given querier
func NewPaymentRepository(q db.Querier) PaymentRepository {
	return &paymentRepository{q: q}
}

// Create appends a ledger entry
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (loan_id, amount_cents)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.LoanID,
		payment.AmountCents,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// ListByLoan retrieves the ledger entries for a loan, oldest first
func (r *paymentRepository) ListByLoan(ctx context.Context, loanID int64) ([]models.Payment, error) {
	query := `
		SELECT id, loan_id, amount_cents, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.AmountCents,
			&payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// SumByLoan returns the total amount paid against a loan. Together with
// the loan row it verifies the ledger reconciliation invariant:
// sum(payments) == amount - balance.
func (r *paymentRepository) SumByLoan(ctx context.Context, loanID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE loan_id = $1
	`

	var total int64
	if err := r.q.QueryRowContext(ctx, query, loanID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}
