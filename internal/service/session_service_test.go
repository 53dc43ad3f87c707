package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)

	opened, err := svc.Open("p_abc123")
	require.NoError(t, err)
	require.NotEmpty(t, opened.Token)
	require.NotEmpty(t, opened.SessionID)

	claims, err := svc.Verify(opened.Token)
	require.NoError(t, err)
	require.Equal(t, opened.SessionID, claims.SessionID)
	require.Equal(t, "p_abc123", claims.ProfileID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	opened, err := NewSessionService("secret-a", time.Hour).Open("")
	require.NoError(t, err)

	_, err = NewSessionService("secret-b", time.Hour).Verify(opened.Token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewSessionService("test-secret", -time.Minute)

	opened, err := svc.Open("")
	require.NoError(t, err)

	_, err = svc.Verify(opened.Token)
	require.Error(t, err)
}
