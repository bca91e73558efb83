package taskboard

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface with two
// independent HMAC secrets: one for access tokens, one for refresh tokens.
// A token signed with one secret never validates against the other.
type TokenServiceImpl struct {
	accessKey     []byte
	refreshKey    []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	audience      jwt.ClaimStrings
	logger        Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		accessKey:     []byte(cfg.GetAccessSigningKey()),
		refreshKey:    []byte(cfg.GetRefreshSigningKey()),
		accessExpiry:  cfg.GetAccessTokenExpiration(),
		refreshExpiry: cfg.GetRefreshTokenExpiration(),
		issuer:        cfg.GetIssuer(),
		audience:      cfg.GetAudience(),
		logger:        logger,
	}
}

// IssueAccessToken signs {id, username, email, fullName, exp} with the
// access secret and the short expiry
func (ts *TokenServiceImpl) IssueAccessToken(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &AccessClaims{
		RegisteredClaims: ts.registered(identity.ID(), now, ts.accessExpiry),
		UID:              identity.ID(),
		Username:         identity.Username(),
		Email:            identity.Email(),
		FullName:         identity.FullName(),
	}

	return ts.sign(claims, ts.accessKey)
}

// IssueRefreshToken signs {id, exp} with the refresh secret and the long
// expiry
func (ts *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &RefreshClaims{
		RegisteredClaims: ts.registered(identity.ID(), now, ts.refreshExpiry),
		UID:              identity.ID(),
	}

	return ts.sign(claims, ts.refreshKey)
}

// ValidateAccessToken parses and validates an access token string,
// returning structured claims
func (ts *TokenServiceImpl) ValidateAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.validate(raw, ts.accessKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token string,
// returning structured claims
func (ts *TokenServiceImpl) ValidateRefreshToken(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.validate(raw, ts.refreshKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenServiceImpl) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	return jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Subject:   subject,
		Audience:  aud,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (ts *TokenServiceImpl) sign(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

func (ts *TokenServiceImpl) validate(raw string, key []byte, claims jwt.Claims) error {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return ErrTokenMalformed
	}

	return nil
}
