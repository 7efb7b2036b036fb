package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mido/loan-service/internal/auth"
)

func TestPerformRegister(t *testing.T) {
	svc := &AccountService{}

	t.Run("stores a hash, never the password", func(t *testing.T) {
		repo := newFakeAccountRepo()

		account, err := svc.performRegister(context.Background(), repo, "alice", "s3cret", false)

		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.False(t, account.IsAdmin)
		assert.NotEqual(t, "s3cret", account.PasswordHash)
		assert.True(t, auth.CheckPassword(account.PasswordHash, "s3cret"))
	})

	t.Run("empty username fails", func(t *testing.T) {
		repo := newFakeAccountRepo()

		_, err := svc.performRegister(context.Background(), repo, "", "s3cret", false)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInvalidUsername, svcErr.Code)
	})

	t.Run("empty password fails", func(t *testing.T) {
		repo := newFakeAccountRepo()

		_, err := svc.performRegister(context.Background(), repo, "alice", "", false)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInvalidPassword, svcErr.Code)
	})

	t.Run("duplicate username conflicts and keeps the first account", func(t *testing.T) {
		repo := newFakeAccountRepo()

		first, err := svc.performRegister(context.Background(), repo, "alice", "s3cret", false)
		require.NoError(t, err)

		_, err = svc.performRegister(context.Background(), repo, "alice", "other", false)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeUsernameTaken, svcErr.Code)

		stored, err := repo.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, first.PasswordHash, stored.PasswordHash)
	})
}

func TestPerformLogin(t *testing.T) {
	svc := &AccountService{}

	t.Run("correct credentials return the account", func(t *testing.T) {
		repo := newFakeAccountRepo()
		_, err := svc.performRegister(context.Background(), repo, "alice", "s3cret", true)
		require.NoError(t, err)

		account, err := svc.performLogin(context.Background(), repo, "alice", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, "alice", account.Username)
		assert.True(t, account.IsAdmin)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		repo := newFakeAccountRepo()
		_, err := svc.performRegister(context.Background(), repo, "alice", "s3cret", false)
		require.NoError(t, err)

		_, err = svc.performLogin(context.Background(), repo, "alice", "wrong")

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInvalidCredentials, svcErr.Code)
	})

	t.Run("unknown username fails the same way", func(t *testing.T) {
		repo := newFakeAccountRepo()

		_, err := svc.performLogin(context.Background(), repo, "nobody", "s3cret")

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInvalidCredentials, svcErr.Code)
	})
}

func TestPerformEnsureAdmin(t *testing.T) {
	svc := &AccountService{}

	t.Run("creates the admin account when missing", func(t *testing.T) {
		repo := newFakeAccountRepo()

		require.NoError(t, svc.performEnsureAdmin(context.Background(), repo, "admin123"))

		admin, err := repo.FindByUsername(context.Background(), AdminUsername)
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin)
		assert.True(t, auth.CheckPassword(admin.PasswordHash, "admin123"))
	})

	t.Run("second run leaves the existing account untouched", func(t *testing.T) {
		repo := newFakeAccountRepo()
		require.NoError(t, svc.performEnsureAdmin(context.Background(), repo, "admin123"))
		before, err := repo.FindByUsername(context.Background(), AdminUsername)
		require.NoError(t, err)

		require.NoError(t, svc.performEnsureAdmin(context.Background(), repo, "different"))

		after, err := repo.FindByUsername(context.Background(), AdminUsername)
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
		assert.True(t, auth.CheckPassword(after.PasswordHash, "admin123"))
	})
}
