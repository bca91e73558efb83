package taskboard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	FullName() string
}

// Config holds token and middleware options
type Config interface {
	GetAccessSigningKey() string
	GetRefreshSigningKey() string
	GetAccessTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
	GetSigningMethod() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// TokenService issues and validates the two token kinds. Access and refresh
// tokens are signed with independent secrets and expiries; signature and
// expiry are the only validity checks.
type TokenService interface {
	IssueAccessToken(identity Identity) (string, error)
	IssueRefreshToken(identity Identity) (string, error)
	ValidateAccessToken(raw string) (*AccessClaims, error)
	ValidateRefreshToken(raw string) (*RefreshClaims, error)
}

// IdentityProvider ensures we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Authenticator holds methods to deal with session lifecycle
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	TokenService() TokenService
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] TASKBOARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] TASKBOARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] TASKBOARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] TASKBOARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
