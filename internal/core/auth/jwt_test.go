package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, expiresIn, err := svc.GenerateAccessToken(&TokenClaims{
		UserID: "user-1",
		Email:  "owner@example.com",
	})
	require.NoError(t, err)
	require.Positive(t, expiresIn)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "owner@example.com", claims.Email)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// the refresh token still works where it belongs
	userID, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	// but must never authenticate a request on its own
	_, err = svc.ValidateAccessToken(refresh)
	require.Error(t, err)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	access, _, err := svc.GenerateAccessToken(&TokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongKey(t *testing.T) {
	token, _, err := NewJWTService("secret-a").GenerateAccessToken(&TokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateAccessToken(token)
	require.Error(t, err)
}
