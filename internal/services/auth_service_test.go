package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.auth.StartSignup(ctx, "+911234567890"))
	assert.Equal(t, 1, env.verifier.sentCount())

	verifyToken, err := env.auth.VerifySignupOTP(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, verifyToken)

	res, err := env.auth.CompleteSignup(ctx, "+911234567890", "1234", "Asha", verifyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "+911234567890", res.PhoneNumber)
	assert.Equal(t, "Asha", res.Username)
	assert.Empty(t, res.Properties)

	// the PIN is stored hashed, never in clear
	stored, err := env.users.FindByPhone(ctx, "+911234567890")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", stored.PinHash)
	assert.NotEmpty(t, stored.PinHash)

	// the session token authorizes as this phone number
	phone, err := env.tokens.ParseSession(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "+911234567890", phone)

	// sign-in with the right PIN succeeds, the wrong one fails
	_, err = env.auth.SignIn(ctx, "+911234567890", "1234")
	assert.NoError(t, err)
	_, err = env.auth.SignIn(ctx, "+911234567890", "9999")
	assert.ErrorIs(t, err, ErrIncorrectPin)
}

func TestStartSignup_DuplicateUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.register(ctx, "+911234567890", "1234", "Asha")
	require.NoError(t, err)

	assert.ErrorIs(t, env.auth.StartSignup(ctx, "+911234567890"), ErrUserAlreadyExists)
}

func TestCompleteSignup_DuplicateRace(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	verifyToken, _, err := env.tokens.IssueVerify("+911234567890")
	require.NoError(t, err)

	_, err = env.register(ctx, "+911234567890", "1234", "Asha")
	require.NoError(t, err)

	// another completion for the same phone loses to the unique index
	_, err = env.auth.CompleteSignup(ctx, "+911234567890", "5678", "Late", verifyToken)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestVerifySignupOTP_WrongCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.auth.VerifySignupOTP(context.Background(), "+911234567890", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestCompleteSignup_PinFormat(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	verifyToken, _, err := env.tokens.IssueVerify("+911234567890")
	require.NoError(t, err)

	for _, pin := range []string{"123", "12345", "12a4", ""} {
		_, err := env.auth.CompleteSignup(ctx, "+911234567890", pin, "Asha", verifyToken)
		assert.ErrorIs(t, err, ErrInvalidPinFormat, "pin %q", pin)
	}
}

func TestCompleteSignup_RequiresVerifyToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// no token at all
	_, err := env.auth.CompleteSignup(ctx, "+911234567890", "1234", "Asha", "")
	assert.ErrorIs(t, err, ErrInvalidVerifyToken)

	// token bound to a different phone number
	other, _, err := env.tokens.IssueVerify("+919999999999")
	require.NoError(t, err)
	_, err = env.auth.CompleteSignup(ctx, "+911234567890", "1234", "Asha", other)
	assert.ErrorIs(t, err, ErrInvalidVerifyToken)

	// a session token is not a verify token
	session, _, err := env.tokens.IssueSession("+911234567890")
	require.NoError(t, err)
	_, err = env.auth.CompleteSignup(ctx, "+911234567890", "1234", "Asha", session)
	assert.ErrorIs(t, err, ErrInvalidVerifyToken)
}

func TestSignIn_UnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.auth.SignIn(context.Background(), "+911234567890", "1234")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignIn_ReturnsOnlyOwnProperties(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.register(ctx, "+911111111111", "1111", "A")
	require.NoError(t, err)
	_, err = env.register(ctx, "+912222222222", "2222", "B")
	require.NoError(t, err)

	_, err = env.listings.Create(ctx, "+911111111111", "Plot A", map[string]interface{}{"price": 100})
	require.NoError(t, err)
	_, err = env.listings.Create(ctx, "+912222222222", "Plot B", map[string]interface{}{"price": 200})
	require.NoError(t, err)

	res, err := env.auth.SignIn(ctx, "+911111111111", "1111")
	require.NoError(t, err)
	require.Len(t, res.Properties, 1)
	assert.Equal(t, "Plot A", res.Properties[0].Title)
}

func TestOTPRateLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, env.auth.StartLogin(ctx, "+911234567890"))
	}
	assert.ErrorIs(t, env.auth.StartLogin(ctx, "+911234567890"), ErrOTPRateLimited)
	assert.Equal(t, 5, env.verifier.sentCount())

	// a different phone number has its own budget
	assert.NoError(t, env.auth.StartLogin(ctx, "+919999999999"))
}

func TestResetFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.register(ctx, "+911234567890", "1234", "Asha")
	require.NoError(t, err)

	require.NoError(t, env.auth.StartReset(ctx, "+911234567890"))
	verifyToken, err := env.auth.VerifyResetOTP(ctx, "+911234567890", "123456")
	require.NoError(t, err)

	require.NoError(t, env.auth.CompleteReset(ctx, "+911234567890", "4321", verifyToken))

	_, err = env.auth.SignIn(ctx, "+911234567890", "1234")
	assert.ErrorIs(t, err, ErrIncorrectPin)
	_, err = env.auth.SignIn(ctx, "+911234567890", "4321")
	assert.NoError(t, err)
}

func TestCompleteReset_RequiresVerifyToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.register(ctx, "+911234567890", "1234", "Asha")
	require.NoError(t, err)

	assert.ErrorIs(t, env.auth.CompleteReset(ctx, "+911234567890", "4321", ""), ErrInvalidVerifyToken)

	other, _, err := env.tokens.IssueVerify("+919999999999")
	require.NoError(t, err)
	assert.ErrorIs(t, env.auth.CompleteReset(ctx, "+911234567890", "4321", other), ErrInvalidVerifyToken)

	// the PIN is untouched after rejected resets
	_, err = env.auth.SignIn(ctx, "+911234567890", "1234")
	assert.NoError(t, err)
}

func TestStartReset_UnknownUser(t *testing.T) {
	env := newTestEnv()

	assert.ErrorIs(t, env.auth.StartReset(context.Background(), "+911234567890"), ErrUserNotFound)
}

func TestLoginWithOTP_CreatesPinlessUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.auth.StartLogin(ctx, "+911234567890"))
	res, err := env.auth.LoginWithOTP(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	// the lazily created account has no PIN, so PIN sign-in cannot succeed
	// until signup's final phase sets one
	stored, err := env.users.FindByPhone(ctx, "+911234567890")
	require.NoError(t, err)
	assert.Empty(t, stored.PinHash)

	_, err = env.auth.SignIn(ctx, "+911234567890", "1234")
	assert.ErrorIs(t, err, ErrIncorrectPin)
}

func TestLoginWithOTP_ExistingUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.register(ctx, "+911234567890", "1234", "Asha")
	require.NoError(t, err)

	res, err := env.auth.LoginWithOTP(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Asha", res.Username)
}

func TestLoginWithOTP_WrongCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.auth.LoginWithOTP(context.Background(), "+911234567890", "654321")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}
