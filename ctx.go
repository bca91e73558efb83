package taskboard

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithClaimsContext sets the AccessClaims in the given context
func WithClaimsContext(r context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AccessClaims from the standard context
func GetClaims(ctx context.Context) (*AccessClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*AccessClaims)
	return raw, ok
}

// GetRouterUser extracts the resolved User from the router context
func GetRouterUser(ctx router.Context, key string) (*User, bool) {
	if key == "" {
		key = "user" // Default key used by the token middleware
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}

// GetRouterClaims extracts the AccessClaims from the router context
func GetRouterClaims(ctx router.Context, key string) (*AccessClaims, bool) {
	if key == "" {
		key = "claims"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*AccessClaims)
	return claims, ok
}
