package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingLoginStore(t *testing.T) {
	store := NewPendingLoginStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	token, err := store.GeneratePendingToken("user-1", 5*time.Minute)
	require.NoError(t, err)

	userID, err := store.VerifyPendingToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = store.VerifyPendingToken("unknown")
	assert.ErrorIs(t, err, ErrInvalidPendingToken)

	now = now.Add(6 * time.Minute)
	_, err = store.VerifyPendingToken(token)
	assert.ErrorIs(t, err, ErrExpiredPendingToken)
	_, err = store.VerifyPendingToken(token)
	assert.ErrorIs(t, err, ErrInvalidPendingToken)
}

func TestPendingLoginStore_RemoveExpired(t *testing.T) {
	store := NewPendingLoginStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	short, err := store.GeneratePendingToken("user-1", time.Minute)
	require.NoError(t, err)
	long, err := store.GeneratePendingToken("user-2", time.Hour)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	store.removeExpired()

	assert.NotContains(t, store.tokens, short)
	assert.Contains(t, store.tokens, long)
}

func TestAuthenticator_VerifyCode(t *testing.T) {
	auth := Authenticator{}

	uri, secret, err := auth.GenerateSecret("alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, uri, "Cashlex")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, auth.VerifyCode(secret, code))
	assert.False(t, auth.VerifyCode(secret, "not-a-code"))
}
