package taskboard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the access token payload: enough identity to serve a
// request without a second lookup, plus the registered claims.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// UserID returns the user ID
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time, zero if unset
func (c *AccessClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// RefreshClaims is the refresh token payload: id and expiry only
type RefreshClaims struct {
	jwt.RegisteredClaims
	UID string `json:"id,omitempty"`
}

// UserID returns the user ID
func (c *RefreshClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}
