package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	JwtSecret = []byte("test-secret")

	token, err := GenerateJWT("ana@example.com", "Ana", "manager", "EMP-1a2b3c4d", "site-north-01", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "EMP-1a2b3c4d", claims.EmployeeID)
	assert.Equal(t, "site-north-01", claims.SiteID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	JwtSecret = []byte("test-secret")
	token, err := GenerateJWT("ana@example.com", "Ana", "manager", "EMP-1a2b3c4d", "site-north-01", time.Hour)
	require.NoError(t, err)

	JwtSecret = []byte("another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
