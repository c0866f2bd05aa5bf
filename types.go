package authflow

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package depends on. Adapters for
// structured loggers live under adapters/.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. Email is the
// natural key used as the subject of every ephemeral record.
type Identity interface {
	ID() string
	Email() string
	Roles() []string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

// SigningKeyProvider supplies the secret used to sign session tokens.
// Key rotation is out of scope; the provider is read once per signature.
type SigningKeyProvider interface {
	SigningKey() []byte
}

// StaticSigningKey is a SigningKeyProvider over a fixed secret.
type StaticSigningKey []byte

func (k StaticSigningKey) SigningKey() []byte { return []byte(k) }

// Notifier delivers outbound messages (verification codes, reset links).
// Failures propagate to the caller as transient errors, never swallowed.
type Notifier interface {
	Deliver(ctx context.Context, address, subject, body string) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHFLOW "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
