package authflow

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the HTTP status.
const (
	TextCodeInvalidCreds         = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodeCodeMissingOrExpired = "VERIFICATION_CODE_MISSING_OR_EXPIRED"
	TextCodeCodeMismatch         = "VERIFICATION_CODE_MISMATCH"
	TextCodeVerificationRequired = "EMAIL_VERIFICATION_REQUIRED"
	TextCodeResetTokenInvalid    = "RESET_TOKEN_INVALID_OR_EXPIRED"
	TextCodeInsufficientRole     = "INSUFFICIENT_ROLE"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeRecordNotFound       = "EPHEMERAL_RECORD_NOT_FOUND"
	TextCodeStoreUnavailable     = "TOKEN_STORE_UNAVAILABLE"
)

// ErrMismatchedHashAndPassword is returned when credentials do not verify.
// Absent users and wrong passwords collapse into this single error so callers
// cannot probe which emails exist.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrCodeMissingOrExpired means no verification code exists for the email,
// either because none was requested or because its TTL elapsed. Both cases
// are indistinguishable on purpose.
var ErrCodeMissingOrExpired = goerrors.New("verification code missing or expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeCodeMissingOrExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrCodeMismatch means a code exists but the submitted value differs.
var ErrCodeMismatch = goerrors.New("verification code mismatch", goerrors.CategoryAuth).
	WithTextCode(TextCodeCodeMismatch).
	WithCode(goerrors.CodeUnauthorized)

// ErrVerificationRequired gates password reset requests behind a successful
// email verification.
var ErrVerificationRequired = goerrors.New("email verification required", goerrors.CategoryAuth).
	WithTextCode(TextCodeVerificationRequired).
	WithCode(goerrors.CodeUnauthorized)

// ErrResetTokenInvalid covers unknown, expired and already consumed reset
// tokens. A consumed token must behave identically to one never issued.
var ErrResetTokenInvalid = goerrors.New("invalid or expired password reset token", goerrors.CategoryBadInput).
	WithTextCode(TextCodeResetTokenInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrForbidden is the single deny outcome of the role access evaluator.
var ErrForbidden = goerrors.New("caller roles do not satisfy the required roles", goerrors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(goerrors.CodeForbidden)

// ErrTokenExpired will surface for elapsed session tokens.
var ErrTokenExpired = goerrors.New("authentication token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrRecordNotFound is the absent outcome of TokenStore lookups. Store
// adapters must translate their native miss marker into this error; anything
// else coming out of an adapter is a transient infrastructure failure.
var ErrRecordNotFound = goerrors.New("ephemeral record not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUnableToDecodeSession unable to decode claims from a validated token.
var ErrUnableToDecodeSession = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// IsUnauthorized reports whether err is a credential or verification failure.
func IsUnauthorized(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == goerrors.CategoryAuth
}

// IsTransient reports whether err is an infrastructure failure (store,
// repository or notifier unavailability) as opposed to a business negative.
// Transient failures must never be interpreted as "absent".
func IsTransient(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	switch rich.Category {
	case goerrors.CategoryInternal, goerrors.CategoryOperation:
		return true
	}
	return false
}

// IsTokenExpiredError will check for expired tokens, including errors coming
// from the jwt library before they are wrapped.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
