package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)
	require.True(t, strings.HasPrefix(hash, "$2"), "bcrypt output should be self-describing")

	match, err := hasher.Verify("pw1", hash)
	require.NoError(t, err)
	require.True(t, match)

	match, err = hasher.Verify("pw2", hash)
	require.NoError(t, err)
	require.False(t, match)
}

func TestPasswordHasherMalformedStoredHash(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	match, err := hasher.Verify("pw1", "not-a-bcrypt-hash")
	require.Error(t, err)
	require.False(t, match)
}

func TestPasswordHasherClampsInvalidCost(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(99)

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPasswordHasherDistinctSalts(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pw1")
	require.NoError(t, err)
	second, err := hasher.Hash("pw1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
