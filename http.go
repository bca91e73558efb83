package taskboard

import (
	"time"

	"github.com/goliatone/go-router"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter issues and clears the session cookies. Tokens are delivered
// both in the response body and as cookies so browser and non browser
// clients can pick whichever transport suits them.
type CookieWriter struct {
	cfg    Config
	Logger Logger
}

func NewCookieWriter(cfg Config) *CookieWriter {
	return &CookieWriter{
		cfg:    cfg,
		Logger: defLogger{},
	}
}

func (w *CookieWriter) SetSessionCookies(c router.Context, accessToken, refreshToken string) {
	w.setCookieToken(c, AccessTokenCookie, accessToken, w.cfg.GetAccessTokenExpiration())
	if refreshToken != "" {
		w.setCookieToken(c, RefreshTokenCookie, refreshToken, w.cfg.GetRefreshTokenExpiration())
	}
}

func (w *CookieWriter) ClearSessionCookies(c router.Context) {
	w.cookieDel(c, AccessTokenCookie)
	w.cookieDel(c, RefreshTokenCookie)
}

func (w *CookieWriter) setCookieToken(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

func (w *CookieWriter) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}
