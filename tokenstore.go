package authflow

import (
	"context"
	"time"
)

// Ephemeral key namespace. The prefixes are part of the public contract and
// must be preserved for interoperability with existing key spaces.
const (
	VerifyKeyPrefix     = "verify:"
	VerifyDoneKeyPrefix = "verify-done:"
	ResetTokenKeyPrefix = "reset-password-token:"
)

// TokenStore is a TTL-bearing key/value abstraction backing all short-lived
// artifacts: verification codes, verified flags and reset tokens.
//
// Get and GetDel return ErrRecordNotFound for absent keys; any other error is
// a transient infrastructure failure and callers must not treat it as absent.
// Set overwrites an existing value and resets its TTL. GetDel is atomic so
// one-time consumption is at-most-once even under concurrent callers.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// VerifyKey is the record holding the pending verification code for an email.
func VerifyKey(email string) string {
	return VerifyKeyPrefix + email
}

// VerifyDoneKey is the flag recording a successful email verification.
func VerifyDoneKey(email string) string {
	return VerifyDoneKeyPrefix + email
}

// ResetTokenKey is the record mapping an issued reset token to its email.
func ResetTokenKey(token string) string {
	return ResetTokenKeyPrefix + token
}
