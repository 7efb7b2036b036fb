// Package repository provides data access layer implementations for the loan service.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
}

// accountRepository implements AccountRepository
type accountRepository struct {
	q db.Querier
}

// NewAccountRepository creates a new AccountRepository bound to the
// given querier (a pool or an open transaction).
func NewAccountRepository(q db.Querier) AccountRepository {
	return &accountRepository{q: q}
}

// Create inserts a new account. Username uniqueness is enforced by the
// store itself, so a concurrent duplicate registration surfaces as
// models.ErrDuplicateUsername rather than racing an existence check.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.IsAdmin,
	).Scan(&account.ID, &account.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return models.ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its id
func (r *accountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM accounts
		WHERE id = $1
	`

	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

// FindByUsername retrieves an account by its username (case-sensitive exact match)
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM accounts
		WHERE username = $1
	`

	return r.scanAccount(r.q.QueryRowContext(ctx, query, username))
}

// List retrieves all accounts ordered by id
func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM accounts
		ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.PasswordHash,
			&account.IsAdmin,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.IsAdmin,
		&account.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}
