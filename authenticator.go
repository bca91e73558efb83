package taskboard

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// LoginResult carries the issued token pair plus the sanitized user
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Auther implements the session lifecycle: login issues a fresh token pair
// and overwrites the user's single refresh-token slot, refresh mints a new
// access token from a live refresh token.
type Auther struct {
	users    Users
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users Users, provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		users:    users,
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
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
	return s.tokens
}

// Login verifies the credentials, issues an access and a refresh token, and
// persists the refresh token as the user's only live session. A failed
// verification issues nothing and leaves the stored slot untouched.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return nil, ErrUnknownIdentity
	}

	accessToken, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue access token")
	}

	refreshToken, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue refresh token")
	}

	uid, err := uuid.Parse(identity.ID())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "identity carries a malformed id")
	}

	if err := s.users.UpdateRefreshToken(ctx, uid, refreshToken); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist refresh token")
	}

	user, err := s.users.GetSanitizedByID(ctx, uid)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read back user after login")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh validates a refresh token and mints a new access token. Only the
// most recently issued refresh token is honored: each login supersedes the
// previous session's token, so a stale one fails even before its expiry.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrTokenMissing
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Error("Refresh token validation failed", "error", err)
		return "", err
	}

	user, err := s.users.GetByIdentifier(ctx, claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return "", ErrUnknownIdentity
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to resolve refresh token user")
	}

	if user.RefreshToken != refreshToken {
		s.logger.Warn("Refresh presented a superseded token", "user_id", user.ID.String())
		return "", ErrTokenMalformed
	}

	return s.tokens.IssueAccessToken(IdentityFromUser(user))
}

var _ Authenticator = (*Auther)(nil)
