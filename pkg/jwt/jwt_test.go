package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.GenerateToken("owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.OwnerID)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, "silvercase-attendance", claims.Issuer)
}

func TestValidateTokenFailures(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewService("other-secret", time.Hour)
		token, err := other.GenerateToken("owner-1")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expired := NewService("test-secret", -time.Hour)
		token, err := expired.GenerateToken("owner-1")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})
}
