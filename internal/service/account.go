package service

import (
	"context"
	"errors"

	"github.com/mido/loan-service/internal/auth"
	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/models"
	"github.com/mido/loan-service/internal/repository"
)

// AdminUsername is the reserved bootstrap account
const AdminUsername = "admin"

// AccountService handles registration, authentication and user listings
type AccountService struct {
	db *db.DB
}

// NewAccountService creates a new AccountService
func NewAccountService(database *db.DB) *AccountService {
	return &AccountService{db: database}
}

// Register creates a new non-admin account with a salted one-way hash of
// the password. Usernames are matched case-sensitively; a duplicate
// fails without touching the existing account.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.Account, error) {
	return s.performRegister(ctx, repository.NewAccountRepository(s.db), username, password, false)
}

func (s *AccountService) performRegister(
	ctx context.Context,
	accounts repository.AccountRepository,
	username, password string,
	isAdmin bool,
) (*models.Account, error) {
	if username == "" {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidUsername,
			Message: "username cannot be empty",
		}
	}
	if password == "" {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidPassword,
			Message: "password cannot be empty",
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to hash password",
			Err:     err,
		}
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}

	err = accounts.Create(ctx, account)
	if errors.Is(err, models.ErrDuplicateUsername) {
		return nil, &ServiceError{
			Code:    ErrCodeUsernameTaken,
			Message: "username already exists",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to create account",
			Err:     err,
		}
	}

	return account, nil
}

// Login verifies credentials and returns the account. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	return s.performLogin(ctx, repository.NewAccountRepository(s.db), username, password)
}

func (s *AccountService) performLogin(
	ctx context.Context,
	accounts repository.AccountRepository,
	username, password string,
) (*models.Account, error) {
	account, err := accounts.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid credentials",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to load account",
			Err:     err,
		}
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid credentials",
		}
	}

	return account, nil
}

// Users lists all accounts (admin capability, enforced at the surface)
func (s *AccountService) Users(ctx context.Context) ([]models.Account, error) {
	accounts, err := repository.NewAccountRepository(s.db).List(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list users",
			Err:     err,
		}
	}
	return accounts, nil
}

// EnsureAdmin creates the privileged seed account if it does not exist
// yet. The check is idempotent; an existing admin account is left
// untouched, password included.
func (s *AccountService) EnsureAdmin(ctx context.Context, password string) error {
	return s.performEnsureAdmin(ctx, repository.NewAccountRepository(s.db), password)
}

func (s *AccountService) performEnsureAdmin(
	ctx context.Context,
	accounts repository.AccountRepository,
	password string,
) error {
	_, err := accounts.FindByUsername(ctx, AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to check for admin account",
			Err:     err,
		}
	}

	_, err = s.performRegister(ctx, accounts, AdminUsername, password, true)

	// A concurrent bootstrap may have won the insert; that still leaves
	// the system in the required state.
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Code == ErrCodeUsernameTaken {
		return nil
	}
	return err
}
