package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{
		"id":   "u-1",
		"role": "admin",
		"exp":  exp.Unix(),
	})

	claims, err := InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.True(t, TokenExpiry(token).Equal(exp))
}

func TestInspectOpaqueToken(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrNotJWT)
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
}
