package taskboard

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-taskboard/middleware/tokenauth"
	"github.com/google/uuid"
)

// RouteGuard builds the middleware that protects authenticated routes. It
// verifies the access token and resolves the account it names, so handlers
// behind it always see a sanitized *User in the router locals.
type RouteGuard struct {
	tokens TokenService
	users  Users
	cfg    Config
	Logger Logger
}

func NewRouteGuard(tokens TokenService, users Users, cfg Config) *RouteGuard {
	return &RouteGuard{
		tokens: tokens,
		users:  users,
		cfg:    cfg,
		Logger: defLogger{},
	}
}

func (g *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	if logger != nil {
		g.Logger = logger
	}
	return g
}

func (g *RouteGuard) ProtectedRoute() router.MiddlewareFunc {
	return tokenauth.New(tokenauth.Config{
		TokenValidator: accessTokenValidator{tokens: g.tokens},
		TokenLookup:    g.cfg.GetTokenLookup(),
		AuthScheme:     g.cfg.GetAuthScheme(),
		ContextKey:     g.cfg.GetContextKey(),
		ErrorHandler:   g.authErrorHandler,
		UserResolver:   g.resolveUser,
		ContextEnricher: func(ctx context.Context, claims tokenauth.Claims) context.Context {
			if ac, ok := claims.(*AccessClaims); ok {
				return WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})
}

func (g *RouteGuard) resolveUser(ctx context.Context, userID string) (any, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := g.users.GetSanitizedByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	return user, nil
}

func (g *RouteGuard) authErrorHandler(c router.Context, err error) error {
	var richErr *errors.Error

	switch {
	case err == tokenauth.ErrMissingOrMalformed:
		richErr = ErrTokenMissing
	case IsTokenExpiredError(err):
		richErr = ErrTokenExpired
	case IsMalformedError(err):
		richErr = ErrTokenMalformed
	case errors.As(err, &richErr):
	default:
		richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
			WithCode(errors.CodeUnauthorized)
	}

	return RespondError(c, g.Logger, richErr)
}

// accessTokenValidator adapts TokenService to the middleware contract.
type accessTokenValidator struct {
	tokens TokenService
}

func (v accessTokenValidator) Validate(tokenString string) (tokenauth.Claims, error) {
	claims, err := v.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
