package models

import "time"

// Payment is an append-only ledger entry reducing a loan's balance.
// Payments are never mutated or deleted after creation.
type Payment struct {
	CreatedAt   time.Time `db:"created_at"`
	ID          int64     `db:"id"`
	LoanID      int64     `db:"loan_id"`
	AmountCents int64     `db:"amount_cents"`
}
