package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)

	// Same input, different hashes: the salt is embedded per hash
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "Abcdef1!", first)

	// Both verify against the original password
	assert.True(t, CheckPassword("Abcdef1!", first))
	assert.True(t, CheckPassword("Abcdef1!", second))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	// A corrupted stored hash must degrade to a failed check, not a panic
	assert.False(t, CheckPassword("Abcdef1!", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("Abcdef1!", ""))
}

func TestHashPassword_DefaultCost(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abcdef1!", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
