package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_IssueAndParse(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token, err := s.Issue("owner-1", "admin@example.com", "Property Owner")
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.OwnerID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "Property Owner", claims.Name)
	assert.Equal(t, "owner-1", claims.Subject)
}

func TestSessions_Rejects(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	token, err := s.Issue("owner-1", "admin@example.com", "")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessions("other-secret", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewSessions("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := expired.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, CheckPassword(hash, "password123"))
	assert.ErrorIs(t, CheckPassword(hash, "password124"), ErrInvalidCredentials)

	_, err = HashPassword("   ")
	assert.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@example.com", NormalizeEmail(`  "Admin@Example.com" `))
	assert.Equal(t, "a@b.c", NormalizeEmail("'a@b.c'"))
}
