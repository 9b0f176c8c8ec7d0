package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)

	token, err := issuer.Issue("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", userID)
}

func TestTokenIssuer_DefaultTTLIsSevenDays(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(7*24*time.Hour).Unix(), exp.Unix())
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_Tampered(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := json.Marshal(map[string]any{"userId": "someone-else", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	tampered := strings.Join(parts, ".")

	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenIssuer_RequiresUserIDAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"}).SignedString([]byte("secret"))
	_, err := issuer.Verify(noExp)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	_, err = issuer.Verify(noUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
