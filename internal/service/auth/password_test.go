package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testHasher uses the minimum cost to keep tests fast.
func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestNewBcryptHasherCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cost int
		want int
	}{
		{12, 12},
		{bcrypt.MinCost, bcrypt.MinCost},
		{0, DefaultBcryptCost},
		{3, DefaultBcryptCost},
		{32, DefaultBcryptCost},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewBcryptHasher(tt.cost).Cost(), "cost %d", tt.cost)
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	h := testHasher()
	for _, password := range []string{"secret123", "pässwörd", " leading space", "x"} {
		hash, err := h.Hash(password)
		require.NoError(t, err)

		assert.NotEqual(t, password, hash)
		assert.True(t, h.Verify(password, hash), "password %q", password)
		assert.False(t, h.Verify(password+"!", hash))
	}
}

func TestBcryptHasherIsNonDeterministic(t *testing.T) {
	t.Parallel()

	h := testHasher()
	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
}

func TestBcryptHasherEmbedsCost(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(5).Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasherMalformedHashFailsClosed(t *testing.T) {
	t.Parallel()

	h := testHasher()
	for _, hash := range []string{"", "plaintext", "$2a$12$short", "$2a$99$abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ012"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret123", hash), "hash %q", hash)
		})
	}
}

func TestBcryptHasherIsHash(t *testing.T) {
	t.Parallel()

	h := testHasher()
	hash, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, h.IsHash(hash))
	assert.False(t, h.IsHash("secret123"))
	assert.False(t, h.IsHash(""))
}

func TestBcryptHasherRejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}

	_, err := testHasher().Hash(string(long))

	assert.Error(t, err)
}
