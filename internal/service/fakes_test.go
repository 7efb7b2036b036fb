package service

import (
	"context"
	"time"

	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/repository"
)

// In-memory repository fakes for unit testing the perform* logic.

type fakeLoanRepo struct {
	loans  map[int64]*models.Loan
	nextID int64
}

var _ repository.LoanRepository = (*fakeLoanRepo)(nil)

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[int64]*models.Loan), nextID: 1}
}

func (f *fakeLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	loan.ID = f.nextID
	loan.CreatedAt = time.Now()
	f.nextID++
	stored := *loan
	f.loans[loan.ID] = &stored
	return nil
}

func (f *fakeLoanRepo) FindByID(_ context.Context, id int64) (*models.Loan, error) {
	loan, ok := f.loans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *loan
	return &copied, nil
}

func (f *fakeLoanRepo) FindForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeLoanRepo) FindApprovedForUpdate(_ context.Context, accountID, loanID int64) (*models.Loan, error) {
	loan, ok := f.loans[loanID]
	if !ok || loan.AccountID != accountID || loan.Status != models.LoanStatusApproved {
		return nil, models.ErrNotFound
	}
	copied := *loan
	return &copied, nil
}

func (f *fakeLoanRepo) ListByAccount(_ context.Context, accountID int64) ([]models.Loan, error) {
	var out []models.Loan
	for _, loan := range f.loans {
		if loan.AccountID == accountID {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListApprovedByAccount(_ context.Context, accountID int64) ([]models.Loan, error) {
	var out []models.Loan
	for _, loan := range f.loans {
		if loan.AccountID == accountID && loan.Status == models.LoanStatusApproved {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListPending(_ context.Context) ([]models.PendingLoan, error) {
	var out []models.PendingLoan
	for _, loan := range f.loans {
		if loan.Status == models.LoanStatusPending {
			out = append(out, models.PendingLoan{
				ID:          loan.ID,
				AmountCents: loan.AmountCents,
				TermMonths:  loan.TermMonths,
				CreatedAt:   loan.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) UpdateStatus(_ context.Context, id int64, status models.LoanStatus) error {
	loan, ok := f.loans[id]
	if !ok {
		return models.ErrNotFound
	}
	loan.Status = status
	return nil
}

func (f *fakeLoanRepo) AdjustBalance(_ context.Context, id int64, deltaCents int64) error {
	loan, ok := f.loans[id]
	if !ok {
		return models.ErrNotFound
	}
	loan.BalanceCents += deltaCents
	return nil
}

type fakePaymentRepo struct {
	payments []models.Payment
	nextID   int64
}

var _ repository.PaymentRepository = (*fakePaymentRepo)(nil)

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = f.nextID
	payment.CreatedAt = time.Now()
	f.nextID++
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentRepo) ListByLoan(_ context.Context, loanID int64) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) SumByLoan(_ context.Context, loanID int64) (int64, error) {
	var total int64
	for _, p := range f.payments {
		if p.LoanID == loanID {
			total += p.AmountCents
		}
	}
	return total, nil
}

type fakeAccountRepo struct {
	accounts map[string]*models.Account
	nextID   int64
}

var _ repository.AccountRepository = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.Account), nextID: 1}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	if _, exists := f.accounts[account.Username]; exists {
		return models.ErrDuplicateUsername
	}
	account.ID = f.nextID
	account.CreatedAt = time.Now()
	f.nextID++
	stored := *account
	f.accounts[account.Username] = &stored
	return nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id int64) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	account, ok := f.accounts[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) List(_ context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, account := range f.accounts {
		out = append(out, *account)
	}
	return out, nil
}
