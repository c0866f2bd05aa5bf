// Package guard is a fiber middleware that authenticates bearer tokens and
// enforces the explicit operation -> required-roles policy declared at route
// registration time. It mirrors the small interfaces it needs instead of
// importing the root package, so it stays cycle-free.
package guard

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ErrMissingOrMalformedToken is returned when no usable bearer token is
// present on the request.
var ErrMissingOrMalformedToken = goerrors.New("missing or malformed bearer token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// TokenValidator mirrors the root package's TokenService.Validate method.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims mirrors the root package's AuthClaims interface.
type AuthClaims interface {
	Subject() string
	UserID() string
	UserEmail() string
	UserRoles() []string
	HasRole(role string) bool
}

// RoleAuthorizer mirrors the root package's AccessPolicy.
type RoleAuthorizer interface {
	Authorize(userRoles []string, operation string) error
}

// Config wires the middleware. Validator is required; Policy may be nil for
// routes that only need an authenticated caller.
type Config struct {
	Validator    TokenValidator
	Policy       RoleAuthorizer
	ContextKey   string
	AuthScheme   string
	ErrorHandler func(c *fiber.Ctx, err error) error
}

// DefaultContextKey is where validated claims are stored on the request.
const DefaultContextKey = "authflow:claims"

// Protect authenticates the request and, when a policy is configured,
// authorizes the caller's roles against the named operation. Validated
// claims end up in c.Locals under ContextKey; handlers receive identity
// explicitly through ClaimsFromCtx rather than through any implicit magic.
func Protect(cfg Config, operation string) fiber.Handler {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return func(c *fiber.Ctx) error {
		raw, err := extractToken(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.Policy != nil {
			if err := cfg.Policy.Authorize(claims.UserRoles(), operation); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, claims)
		return c.Next()
	}
}

// ClaimsFromCtx retrieves the validated claims stored by Protect.
func ClaimsFromCtx(c *fiber.Ctx, contextKey string) (AuthClaims, error) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}

	claims, ok := c.Locals(contextKey).(AuthClaims)
	if !ok || claims == nil {
		return nil, ErrMissingOrMalformedToken
	}
	return claims, nil
}

func extractToken(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingOrMalformedToken
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingOrMalformedToken
	}

	return strings.TrimSpace(header[len(prefix):]), nil
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		rich = goerrors.Wrap(err, goerrors.CategoryAuth, "authentication failed").
			WithCode(goerrors.CodeUnauthorized)
	}

	status := rich.Code
	if status == 0 {
		status = fiber.StatusUnauthorized
	}

	return c.Status(status).JSON(fiber.Map{
		"error":     rich.Message,
		"text_code": rich.TextCode,
	})
}
