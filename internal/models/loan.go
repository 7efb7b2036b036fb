package models

import "time"

// LoanStatus represents the lifecycle stage of a loan
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusRejected LoanStatus = "rejected"
	LoanStatusPaid     LoanStatus = "paid"
)

// LoanDecision represents an admin ruling on a pending loan
type LoanDecision string

const (
	LoanDecisionApprove LoanDecision = "approve"
	LoanDecisionReject  LoanDecision = "reject"
)

// Loan represents a credit extension with principal, term, computed
// interest rate and a mutable outstanding balance.
//
// Invariants: BalanceCents <= AmountCents at all times, and
// BalanceCents == 0 exactly when Status == paid.
type Loan struct {
	CreatedAt    time.Time  `db:"created_at"`
	Status       LoanStatus `db:"status"`
	ID           int64      `db:"id"`
	AccountID    int64      `db:"account_id"`
	AmountCents  int64      `db:"amount_cents"`
	BalanceCents int64      `db:"balance_cents"`
	TermMonths   int        `db:"term_months"`
	RateBps      int        `db:"rate_bps"`
}

// PendingLoan is a pending application joined with the applicant's
// username, as shown on the admin review screen.
type PendingLoan struct {
	CreatedAt   time.Time
	Username    string
	ID          int64
	AmountCents int64
	TermMonths  int
}
