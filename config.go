package authflow

import (
	"os"
	"strings"
	"time"
)

// SimpleConfig is a plain-struct Config implementation. Zero values fall
// back to sane defaults through the getters.
type SimpleConfig struct {
	SigningKey      string
	Issuer          string
	Audience        []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ContextKey      string
	AuthScheme      string
}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetAudience() []string { return c.Audience }

func (c SimpleConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL > 0 {
		return c.AccessTokenTTL
	}
	return DefaultAccessTokenTTL
}

func (c SimpleConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL > 0 {
		return c.RefreshTokenTTL
	}
	return DefaultRefreshTokenTTL
}

func (c SimpleConfig) GetContextKey() string {
	if c.ContextKey != "" {
		return c.ContextKey
	}
	return "authflow:session"
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme != "" {
		return c.AuthScheme
	}
	return "Bearer"
}

var _ Config = SimpleConfig{}

// NewConfigFromEnv builds a SimpleConfig from AUTHFLOW_* environment
// variables. TTL values use Go duration syntax (e.g. "15m", "168h").
func NewConfigFromEnv() SimpleConfig {
	cfg := SimpleConfig{
		SigningKey: os.Getenv("AUTHFLOW_SIGNING_KEY"),
		Issuer:     os.Getenv("AUTHFLOW_ISSUER"),
	}

	if aud := os.Getenv("AUTHFLOW_AUDIENCE"); aud != "" {
		for _, entry := range strings.Split(aud, ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				cfg.Audience = append(cfg.Audience, entry)
			}
		}
	}

	if ttl, err := time.ParseDuration(os.Getenv("AUTHFLOW_ACCESS_TOKEN_TTL")); err == nil {
		cfg.AccessTokenTTL = ttl
	}

	if ttl, err := time.ParseDuration(os.Getenv("AUTHFLOW_REFRESH_TOKEN_TTL")); err == nil {
		cfg.RefreshTokenTTL = ttl
	}

	return cfg
}
