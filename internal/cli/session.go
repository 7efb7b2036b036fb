package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/service"
)

// Session runs the sequential menu loop against the service layer
type Session struct {
	term     Terminal
	accounts service.Registrar
	loans    service.LoanManager
}

// NewSession creates a Session over the given terminal and services
func NewSession(term Terminal, accounts service.Registrar, loans service.LoanManager) *Session {
	return &Session{
		term:     term,
		accounts: accounts,
		loans:    loans,
	}
}

// Run drives the main menu until the user exits or input ends
func (s *Session) Run(ctx context.Context) error {
	for {
		s.term.Header("LOAN MANAGEMENT SYSTEM")
		s.term.Say("1. Register")
		s.term.Say("2. Login")
		s.term.Say("3. Exit")

		choice, err := s.term.Prompt("Choose option (1-3)")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := s.register(ctx); err != nil {
				return err
			}
		case "2":
			account, err := s.login(ctx)
			if err != nil {
				return err
			}
			if account != nil {
				if err := s.userMenu(ctx, account); err != nil {
					return err
				}
			}
		case "3":
			s.term.Success("Goodbye!")
			return nil
		default:
			s.term.Fail("Invalid choice!")
		}
	}
}

func (s *Session) register(ctx context.Context) error {
	s.term.Header("REGISTER")

	username, err := s.term.Prompt("Choose username")
	if err != nil {
		return err
	}
	password, err := s.term.Secret("Choose password")
	if err != nil {
		return err
	}
	confirm, err := s.term.Secret("Confirm password")
	if err != nil {
		return err
	}

	if password != confirm {
		s.term.Fail("Passwords don't match!")
		return nil
	}

	if _, err := s.accounts.Register(ctx, username, password); err != nil {
		s.renderError(err)
		return nil
	}

	s.term.Success("Registration successful!")
	return nil
}

func (s *Session) login(ctx context.Context) (*models.Account, error) {
	s.term.Header("LOGIN")

	username, err := s.term.Prompt("Username")
	if err != nil {
		return nil, err
	}
	password, err := s.term.Secret("Password")
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.Login(ctx, username, password)
	if err != nil {
		s.renderError(err)
		return nil, nil
	}

	s.term.Success("Welcome, %s!", account.Username)
	return account, nil
}

func (s *Session) userMenu(ctx context.Context, account *models.Account) error {
	for {
		s.term.Header("USER DASHBOARD (" + account.Username + ")")
		s.term.Say("1. Apply for loan")
		s.term.Say("2. View my loans")
		s.term.Say("3. Make payment")
		s.term.Say("4. Logout")
		if account.IsAdmin {
			s.term.Say("5. Review pending loans")
			s.term.Say("6. List users")
		}

		choice, err := s.term.Prompt("Choose option")
		if err != nil {
			return err
		}

		switch {
		case choice == "1":
			err = s.applyForLoan(ctx, account)
		case choice == "2":
			err = s.viewLoans(ctx, account)
		case choice == "3":
			err = s.makePayment(ctx, account)
		case choice == "4":
			return nil
		case choice == "5" && account.IsAdmin:
			err = s.reviewPendingLoans(ctx)
		case choice == "6" && account.IsAdmin:
			err = s.listUsers(ctx)
		default:
			s.term.Fail("Invalid choice!")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) applyForLoan(ctx context.Context, account *models.Account) error {
	s.term.Header("APPLY FOR LOAN")

	amountRaw, err := s.term.Prompt("Loan amount ($)")
	if err != nil {
		return err
	}
	termRaw, err := s.term.Prompt("Loan term (months)")
	if err != nil {
		return err
	}

	amountCents, perr := models.ParseCents(amountRaw)
	if perr != nil {
		s.term.Fail("Invalid input! Please enter numbers.")
		return nil
	}
	termMonths, perr := strconv.Atoi(termRaw)
	if perr != nil {
		s.term.Fail("Invalid input! Please enter numbers.")
		return nil
	}

	loan, err2 := s.loans.Apply(ctx, account.ID, amountCents, termMonths)
	if err2 != nil {
		s.renderError(err2)
		return nil
	}

	s.term.Warn("Calculated interest rate: %s%%", models.FormatRateBps(loan.RateBps))
	s.term.Success("Loan application submitted successfully!")
	return nil
}

func (s *Session) viewLoans(ctx context.Context, account *models.Account) error {
	s.term.Header("YOUR LOANS")

	loans, err := s.loans.LoansFor(ctx, account.ID)
	if err != nil {
		s.renderError(err)
		return nil
	}
	if len(loans) == 0 {
		s.term.Warn("You have no loans.")
		return nil
	}

	for _, loan := range loans {
		s.term.Say("Loan ID: %d", loan.ID)
		s.term.Say("  Amount: $%s", models.FormatCents(loan.AmountCents))
		s.term.Say("  Term: %d months", loan.TermMonths)
		s.term.Say("  Interest rate: %s%%", models.FormatRateBps(loan.RateBps))
		s.term.Say("  Status: %s", loan.Status)
		s.term.Say("  Balance: $%s", models.FormatCents(loan.BalanceCents))
		s.term.Say("  Date: %s", loan.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (s *Session) makePayment(ctx context.Context, account *models.Account) error {
	s.term.Header("MAKE PAYMENT")

	approved, err := s.loans.ApprovedLoansFor(ctx, account.ID)
	if err != nil {
		s.renderError(err)
		return nil
	}
	if len(approved) == 0 {
		s.term.Warn("You have no approved loans.")
		return nil
	}

	s.term.Say("Your approved loans:")
	for _, loan := range approved {
		s.term.Say("ID: %d - Amount: $%s - Balance: $%s",
			loan.ID,
			models.FormatCents(loan.AmountCents),
			models.FormatCents(loan.BalanceCents),
		)
	}

	idRaw, err := s.term.Prompt("Enter loan ID to pay")
	if err != nil {
		return err
	}
	amountRaw, err := s.term.Prompt("Payment amount ($)")
	if err != nil {
		return err
	}

	loanID, perr := strconv.ParseInt(idRaw, 10, 64)
	if perr != nil {
		s.term.Fail("Invalid input! Please enter numbers.")
		return nil
	}
	amountCents, perr := models.ParseCents(amountRaw)
	if perr != nil {
		s.term.Fail("Invalid input! Please enter numbers.")
		return nil
	}

	loan, _, err2 := s.loans.Pay(ctx, account.ID, loanID, amountCents)
	if err2 != nil {
		s.renderError(err2)
		return nil
	}

	s.term.Success("Payment successful!")
	if loan.Status == models.LoanStatusPaid {
		s.term.Success("Loan fully paid off!")
	}
	return nil
}

func (s *Session) reviewPendingLoans(ctx context.Context) error {
	s.term.Header("REVIEW PENDING LOANS")

	pending, err := s.loans.PendingLoans(ctx)
	if err != nil {
		s.renderError(err)
		return nil
	}
	if len(pending) == 0 {
		s.term.Warn("No pending loans found.")
		return nil
	}

	s.term.Say("Pending loans:")
	for _, p := range pending {
		s.term.Say("ID: %d | User: %s", p.ID, p.Username)
		s.term.Say("  Amount: $%s | Term: %d months", models.FormatCents(p.AmountCents), p.TermMonths)
		s.term.Say("  Applied: %s", p.CreatedAt.Format("2006-01-02"))
	}

	idRaw, err := s.term.Prompt("Enter loan ID to approve/reject")
	if err != nil {
		return err
	}
	action, err := s.term.Prompt("Approve (A) or Reject (R)?")
	if err != nil {
		return err
	}

	loanID, perr := strconv.ParseInt(idRaw, 10, 64)
	if perr != nil {
		s.term.Fail("Invalid input!")
		return nil
	}

	var decision models.LoanDecision
	switch {
	case action == "a" || action == "A":
		decision = models.LoanDecisionApprove
	case action == "r" || action == "R":
		decision = models.LoanDecisionReject
	default:
		s.term.Fail("Invalid action!")
		return nil
	}

	loan, err2 := s.loans.Decide(ctx, loanID, decision)
	if err2 != nil {
		s.renderError(err2)
		return nil
	}

	if loan.Status == models.LoanStatusApproved {
		s.term.Success("Loan approved!")
	} else {
		s.term.Warn("Loan rejected.")
	}
	return nil
}

func (s *Session) listUsers(ctx context.Context) error {
	s.term.Header("USERS")

	accounts, err := s.accounts.Users(ctx)
	if err != nil {
		s.renderError(err)
		return nil
	}

	s.term.Say("User list:")
	for _, account := range accounts {
		role := "User"
		if account.IsAdmin {
			role = "Admin"
		}
		s.term.Say("ID: %d | Username: %s | Role: %s", account.ID, account.Username, role)
	}
	return nil
}

// renderError shows a business failure and keeps the session alive.
// Store failures surface as a generic message.
func (s *Session) renderError(err error) {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) && svcErr.Code != service.ErrCodeInternalError {
		s.term.Fail("%s", svcErr.Message)
		return
	}
	s.term.Fail("Something went wrong. Please try again.")
}
