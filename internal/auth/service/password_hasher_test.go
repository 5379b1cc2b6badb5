package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Abcd1234")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Abcd1234", hash)

	assert.True(t, h.Verify("Abcd1234", hash))
	assert.False(t, h.Verify("Abcd1235", hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("Abcd1234")
	require.NoError(t, err)
	second, err := h.Hash("Abcd1234")
	require.NoError(t, err)

	// Same input, different opaque strings, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Abcd1234", first))
	assert.True(t, h.Verify("Abcd1234", second))
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("Abcd1234", ""))
	assert.False(t, h.Verify("Abcd1234", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("Abcd1234", "$2a$garbage"))
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default.
	h := NewBcryptHasher(0)

	hash, err := h.Hash("Abcd1234")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
