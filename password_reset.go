package authflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ResetTokenTTL bounds the life of an unconsumed reset token.
const ResetTokenTTL = 10 * time.Minute

// CredentialStore is the slice of the users repository the reset flow needs:
// resolve an account by email and persist a replacement password hash.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	ResetPasswordByEmail(ctx context.Context, email, passwordHash string) error
}

// PasswordResetFlow issues and consumes one-time password reset tokens.
// Tokens move Unrequested -> TokenIssued -> Consumed; an unconsumed token
// silently expires via TTL. Issuance is gated on the verification flow's
// verify-done flag.
type PasswordResetFlow struct {
	store  TokenStore
	users  CredentialStore
	logger Logger
}

// NewPasswordResetFlow wires the flow to its collaborators.
func NewPasswordResetFlow(store TokenStore, users CredentialStore) *PasswordResetFlow {
	return &PasswordResetFlow{
		store:  store,
		users:  users,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the flow.
func (f *PasswordResetFlow) WithLogger(logger Logger) *PasswordResetFlow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// RequestReset issues a fresh opaque reset token for a verified email. The
// token is returned to the caller, who delivers it back to the requester over
// the side channel already proven by verification.
func (f *PasswordResetFlow) RequestReset(ctx context.Context, email string) (string, error) {
	select {
	case <-ctx.Done():
		return "", goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password reset request")
	default:
	}

	flag, err := f.store.Get(ctx, VerifyDoneKey(email))
	if err != nil {
		if goerrors.Is(err, ErrRecordNotFound) {
			return "", ErrVerificationRequired
		}
		return "", err
	}
	if flag != "true" {
		return "", ErrVerificationRequired
	}

	token := uuid.NewString()
	if err := f.store.Set(ctx, ResetTokenKey(token), email, ResetTokenTTL); err != nil {
		return "", err
	}

	f.logger.Info("password reset token issued", "email", email)
	return token, nil
}

// ResetPassword consumes a reset token and replaces the account password.
// Consumption is a single atomic get-and-delete, so of two racing callers at
// most one succeeds; the other observes an absent token. Unknown, expired and
// already consumed tokens are indistinguishable.
func (f *PasswordResetFlow) ResetPassword(ctx context.Context, token, newPassword string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password reset")
	default:
	}

	if newPassword == "" {
		return ErrNoEmptyString
	}

	email, err := f.store.GetDel(ctx, ResetTokenKey(token))
	if err != nil {
		if goerrors.Is(err, ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	user, err := f.users.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user for password reset")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	if err := f.users.ResetPasswordByEmail(ctx, user.Email, hash); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist new password")
	}

	f.logger.Info("password reset completed", "email", user.Email)
	return nil
}
