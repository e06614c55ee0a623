package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := VerifyToken(tok)
	require.NoError(t, err)

	uid, err := claims.UID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	a, err := GenerateToken(1)
	require.NoError(t, err)
	b, err := GenerateToken(1)
	require.NoError(t, err)

	ca, err := VerifyToken(a)
	require.NoError(t, err)
	cb, err := VerifyToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	tok, err := GenerateToken(7)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "two")
	_, err = VerifyToken(tok)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := JWTClaims{
		UserID: "7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateToken(1)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = VerifyToken("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
