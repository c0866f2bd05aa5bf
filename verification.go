package authflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// TTLs for the email verification records. A pending code lives 5 minutes;
// the verified flag lives 10 so the reset flow has a window to act on it.
const (
	VerificationCodeTTL = 5 * time.Minute
	VerifiedFlagTTL     = 10 * time.Minute
)

const verificationSubject = "Email verification code"

// VerificationFlow proves ownership of an email address. It walks a
// NoCodeIssued -> CodeIssued -> Verified machine whose state is the presence
// of TTL records in the token store: re-requesting a code overwrites the
// previous one, and the Verified flag decays back to nothing on its own.
type VerificationFlow struct {
	store      TokenStore
	notifier   Notifier
	logger     Logger
	codeSource func() (string, error)
}

// NewVerificationFlow wires the flow to its collaborators.
func NewVerificationFlow(store TokenStore, notifier Notifier) *VerificationFlow {
	return &VerificationFlow{
		store:      store,
		notifier:   notifier,
		logger:     defLogger{},
		codeSource: generateCode,
	}
}

// WithLogger overrides the logger used by the flow.
func (f *VerificationFlow) WithLogger(logger Logger) *VerificationFlow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// WithCodeSource overrides code generation (useful for tests).
func (f *VerificationFlow) WithCodeSource(source func() (string, error)) *VerificationFlow {
	if source != nil {
		f.codeSource = source
	}
	return f
}

// RequestCode generates a 6-digit code for the email, stores it under
// verify:{email} and dispatches it through the notifier. Requesting again
// replaces the pending code and resets its TTL.
func (f *VerificationFlow) RequestCode(ctx context.Context, email string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during verification code request")
	default:
	}

	code, err := f.codeSource()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification code")
	}

	if err := f.store.Set(ctx, VerifyKey(email), code, VerificationCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(VerificationCodeTTL.Minutes()))

	if err := f.notifier.Deliver(ctx, email, verificationSubject, body); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deliver verification code")
	}

	f.logger.Debug("verification code issued", "email", email)
	return nil
}

// CheckCode compares the submitted code against the pending one. A missing
// or expired record and a mismatched code are distinct unauthorized errors.
// On match it writes the verify-done:{email} flag; the write is idempotent,
// so repeating the check with the correct code still succeeds. The pending
// code itself is left to expire via TTL.
func (f *VerificationFlow) CheckCode(ctx context.Context, email, submitted string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during verification code check")
	default:
	}

	stored, err := f.store.Get(ctx, VerifyKey(email))
	if err != nil {
		if goerrors.Is(err, ErrRecordNotFound) {
			return ErrCodeMissingOrExpired
		}
		return err
	}

	if stored != submitted {
		f.logger.Debug("verification code mismatch", "email", email)
		return ErrCodeMismatch
	}

	if err := f.store.Set(ctx, VerifyDoneKey(email), "true", VerifiedFlagTTL); err != nil {
		return err
	}

	f.logger.Debug("email verified", "email", email)
	return nil
}

// generateCode draws a uniformly random 6-digit numeric code. Collisions
// across emails are irrelevant, the TTL bounds exposure.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
