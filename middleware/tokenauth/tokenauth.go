package tokenauth

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup    = "cookie:accessToken,header:" + router.HeaderAuthorization
	ErrMissingOrMalformed = errors.New("missing or malformed access token")
)

// TokenValidator validates a raw access token without import cycles.
// This mirrors the TokenService.ValidateAccessToken method from the root package.
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// Claims is the subset of the verified token the middleware needs.
type Claims interface {
	UserID() string
}

// UserResolver loads the account behind a verified token. The returned value
// is stored under ContextKey so handlers get the record, not the claims.
type UserResolver func(ctx context.Context, userID string) (any, error)

type Config struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	ContextKey     string
	ClaimsKey      string
	TokenLookup    string
	AuthScheme     string

	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// UserResolver is optional. When set, the middleware resolves the user
	// record for the token subject and rejects tokens for unknown users.
	UserResolver UserResolver

	// ContextEnricher is an optional function to propagate claims to the
	// standard Go context. If provided, it is called after validation.
	ContextEnricher func(c context.Context, claims Claims) context.Context
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ClaimsKey, claims)

			if cfg.UserResolver != nil {
				user, err := cfg.UserResolver(ctx.Context(), claims.UserID())
				if err != nil {
					return cfg.ErrorHandler(ctx, err)
				}
				ctx.Locals(cfg.ContextKey, user)
			}

			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				ctx.SetContext(cfg.ContextEnricher(stdCtx, claims))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if err.Error() == ErrMissingOrMalformed.Error() {
				return c.Status(router.StatusBadRequest).SendString(ErrMissingOrMalformed.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: token middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = "claims"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a lookup string of the form
// "cookie:accessToken,header:Authorization" into ordered extractors. The
// order matters: the first source that yields a token wins.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

type TokenExtractor func(c router.Context) (string, error)

// tokenFromHeader returns a function that extracts token from the request header.
func tokenFromHeader(header string, authScheme string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		authScheme = strings.TrimSpace(authScheme)
		l := len(authScheme)
		if l == 0 {
			return "", ErrMissingOrMalformed
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrMissingOrMalformed
	}
}

// tokenFromQuery returns a function that extracts token from the query string.
func tokenFromQuery(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromParam returns a function that extracts token from the url param string.
func tokenFromParam(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts token from the named cookie.
func tokenFromCookie(name string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrMissingOrMalformed
		}
		return token, nil
	}
}
