package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	assert.True(t, h.Verify("secret1", hash))
}

func TestVerifyRejectsMutations(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	for _, password := range []string{"Secret1", "secret2", "secret", "secret1 ", ""} {
		assert.False(t, h.Verify(password, hash), "password %q", password)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("secret1", ""))
}

func TestNewHasherClampsCost(t *testing.T) {
	t.Parallel()

	// Out-of-range costs fall back to the default instead of making every
	// Hash call fail.
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1, 99} {
		h := NewHasher(cost)
		assert.Equal(t, bcrypt.DefaultCost, h.cost, "cost %d", cost)
	}
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
	assert.Equal(t, bcrypt.MaxCost, NewHasher(bcrypt.MaxCost).cost)
}

func TestHashesDiffer(t *testing.T) {
	t.Parallel()

	// Fresh salt per call: same input, different output.
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
