package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authflow "github.com/hakbeom/go-authflow"
	"github.com/hakbeom/go-authflow/store"
)

// Walks the whole credential lifecycle against the in-memory store: login,
// verify the email, request a reset, consume the token, and log in again
// with the new password.
func TestCredentialLifecycle(t *testing.T) {
	ctx := context.Background()

	kv := store.NewMemoryStore()
	users := newStubUserStore()
	users.add("user@example.com", "originalPassword1!", authflow.RoleUser)

	var deliveredCode string
	notifier := new(MockNotifier)
	notifier.On("Deliver", mock.Anything, "user@example.com", mock.Anything, mock.Anything).Return(nil)

	verification := authflow.NewVerificationFlow(kv, notifier).
		WithCodeSource(func() (string, error) {
			deliveredCode = "424242"
			return deliveredCode, nil
		})
	reset := authflow.NewPasswordResetFlow(kv, users)
	auther := newTestAuthenticator(users)

	// the original password works
	_, err := auther.Login(ctx, "user@example.com", "originalPassword1!")
	require.NoError(t, err)

	// a reset without verification is refused
	_, err = reset.RequestReset(ctx, "user@example.com")
	require.ErrorIs(t, err, authflow.ErrVerificationRequired)

	// prove ownership of the mailbox
	require.NoError(t, verification.RequestCode(ctx, "user@example.com"))
	require.NoError(t, verification.CheckCode(ctx, "user@example.com", deliveredCode))

	// now the reset token is issued and consumed exactly once
	token, err := reset.RequestReset(ctx, "user@example.com")
	require.NoError(t, err)
	require.NoError(t, reset.ResetPassword(ctx, token, "rotatedPassword1!"))
	require.ErrorIs(t, reset.ResetPassword(ctx, token, "rotatedAgain1!"), authflow.ErrResetTokenInvalid)

	// the old password is dead, the new one mints tokens with intact claims
	_, err = auther.Login(ctx, "user@example.com", "originalPassword1!")
	assert.ErrorIs(t, err, authflow.ErrMismatchedHashAndPassword)

	pair, err := auther.Login(ctx, "user@example.com", "rotatedPassword1!")
	require.NoError(t, err)

	claims, err := auther.TokenService().Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.UserEmail())
	assert.True(t, claims.HasRole(authflow.RoleUser))

	// role evaluation on the fresh claims
	assert.NoError(t, authflow.Authorize(claims.UserRoles(), []string{authflow.RoleUser}))
	assert.ErrorIs(t,
		authflow.Authorize(claims.UserRoles(), []string{authflow.RoleAdmin}),
		authflow.ErrForbidden)

	notifier.AssertExpectations(t)
}
