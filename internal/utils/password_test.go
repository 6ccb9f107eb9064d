package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.True(t, VerifyPassword(hash, "s3cret-pass"))
	require.False(t, VerifyPassword(hash, "wrong-pass"))
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "s3cret-pass"))
}

func TestHashPasswordCostFallback(t *testing.T) {
	// out-of-range costs are replaced with bcrypt.DefaultCost instead of failing
	hash, err := HashPassword("s3cret-pass", 99)
	require.NoError(t, err)
	require.True(t, VerifyPassword(hash, "s3cret-pass"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
