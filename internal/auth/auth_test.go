package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	i := NewIssuer("secret", time.Hour)

	token, err := i.GenerateToken("u1", "u@example.com", "store_owner")
	require.NoError(t, err)

	claims, err := i.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "store_owner", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestIssuer_ExpiredToken(t *testing.T) {
	i := NewIssuer("secret", time.Minute)
	start := time.Now()
	i.now = func() time.Time { return start }

	token, err := i.GenerateToken("u1", "u@example.com", "user")
	require.NoError(t, err)

	i.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = i.ValidateToken(token)
	assert.Error(t, err)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, err := NewIssuer("one", 0).GenerateToken("u1", "u@example.com", "user")
	require.NoError(t, err)

	_, err = NewIssuer("two", 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestIssuer_NotInitialized(t *testing.T) {
	_, err := NewIssuer("", 0).GenerateToken("u1", "u@example.com", "user")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret@123", hash)

	assert.NoError(t, VerifyPassword("Secret@123", hash))
	assert.Error(t, VerifyPassword("secret@123", hash))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
