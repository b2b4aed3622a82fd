package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SessionRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30, 5)

	token, exp, err := tm.IssueSession("+911234567890")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), exp, 5*time.Second)

	phone, err := tm.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "+911234567890", phone)
}

func TestTokenManager_VerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30, 5)

	token, exp, err := tm.IssueVerify("+911234567890")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	phone, err := tm.ParseVerify(token)
	require.NoError(t, err)
	assert.Equal(t, "+911234567890", phone)
}

func TestTokenManager_AudienceIsChecked(t *testing.T) {
	tm := NewTokenManager("secret", 30, 5)

	verifyToken, _, err := tm.IssueVerify("+911234567890")
	require.NoError(t, err)
	_, err = tm.ParseSession(verifyToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	sessionToken, _, err := tm.IssueSession("+911234567890")
	require.NoError(t, err)
	_, err = tm.ParseVerify(sessionToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm1 := NewTokenManager("secret1", 30, 5)
	tm2 := NewTokenManager("secret2", 30, 5)

	token, _, err := tm1.IssueSession("+911234567890")
	require.NoError(t, err)

	_, err = tm2.ParseSession(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("secret", -1, 5)

	token, _, err := tm.IssueSession("+911234567890")
	require.NoError(t, err)

	_, err = tm.ParseSession(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("secret", 30, 5)

	_, err := tm.ParseSession("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
