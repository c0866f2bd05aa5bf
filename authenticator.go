package authflow

import (
	"context"
)

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (TokenPair, error)
	SessionFromToken(token string) (Session, error)
	IdentityFromSession(ctx context.Context, session Session) (Identity, error)
}

// Auther validates credentials through an IdentityProvider and issues
// session token pairs. Logout is client-side only: tokens are stateless and
// expire on their own.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokenService TokenService) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the email/password pair and mints an access/refresh token
// pair carrying the user's id, email and role names.
func (s *Auther) Login(ctx context.Context, email, password string) (TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Debug("Login verify identity error", "error", err)
		return TokenPair{}, err
	}

	pair, err := s.tokenService.IssuePair(identity)
	if err != nil {
		s.logger.Error("Login token issuance error", "error", err)
		return TokenPair{}, err
	}

	s.logger.Info("login succeeded", "user_id", identity.ID())
	return pair, nil
}

// SessionFromToken validates a raw token and maps its claims to a session.
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	return sessionFromAuthClaims(claims), nil
}

// IdentityFromSession re-resolves the durable identity behind a session.
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByEmail(ctx, session.GetEmail())
	if err != nil {
		s.logger.Error("IdentityFromSession find identity by email", "error", err)
		return nil, err
	}

	return identity, nil
}

var _ Authenticator = (*Auther)(nil)
