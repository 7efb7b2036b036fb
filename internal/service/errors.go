package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	// Validation failures: recovered locally, nothing was mutated
	ErrCodeInvalidAmount         = "invalid_amount"
	ErrCodeInvalidTerm           = "invalid_term"
	ErrCodeInvalidPayment        = "invalid_payment"
	ErrCodePaymentExceedsBalance = "payment_exceeds_balance"
	ErrCodeInvalidDecision       = "invalid_decision"
	ErrCodeLoanNotPending        = "loan_not_pending"
	ErrCodeInvalidUsername       = "invalid_username"
	ErrCodeInvalidPassword       = "invalid_password"

	// Missing or ineligible references
	ErrCodeLoanNotFound = "loan_not_found"
	ErrCodeUserNotFound = "user_not_found"

	// Conflicts
	ErrCodeUsernameTaken = "username_taken"

	// Authentication failures
	ErrCodeInvalidCredentials = "invalid_credentials"

	// Persistence failures surfaced as a generic error
	ErrCodeInternalError = "internal_error"
)
