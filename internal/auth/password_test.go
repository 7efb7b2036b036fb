package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := HashPassword("s3cret")

		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", hash)
		assert.True(t, CheckPassword(hash, "s3cret"))
		assert.False(t, CheckPassword(hash, "other"))
	})

	t.Run("equal passwords hash differently", func(t *testing.T) {
		first, err := HashPassword("s3cret")
		require.NoError(t, err)
		second, err := HashPassword("s3cret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestCheckPassword(t *testing.T) {
	t.Run("garbage hash never matches", func(t *testing.T) {
		assert.False(t, CheckPassword("not-a-bcrypt-hash", "s3cret"))
	})

	t.Run("empty password against real hash", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)

		assert.False(t, CheckPassword(hash, ""))
	})
}
