package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// BaseConfig is the root of the application configuration tree. Values load
// from config files and environment overrides through go-config.
type BaseConfig struct {
	App         App         `json:"app" koanf:"app"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
	Server      Server      `json:"server" koanf:"server"`
}

func (c *BaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Auth),
		validation.Field(&c.Server),
	)
}

func (c *BaseConfig) GetApp() App                 { return c.App }
func (c *BaseConfig) GetAuth() *Auth              { return &c.Auth }
func (c *BaseConfig) GetPersistence() Persistence { return c.Persistence }
func (c *BaseConfig) GetServer() Server           { return c.Server }

type App struct {
	Name  string `json:"name" koanf:"name"`
	Env   string `json:"env" koanf:"env"`
	Debug bool   `json:"debug" koanf:"debug"`
}

func (a App) GetName() string { return a.Name }
func (a App) GetEnv() string  { return a.Env }
func (a App) GetDebug() bool  { return a.Debug }

// Auth carries the dual token secrets and expirations. Expirations are
// duration expressions like "15m" or "168h".
type Auth struct {
	AccessSigningKey            string   `json:"access_signing_key" koanf:"access_signing_key"`
	RefreshSigningKey           string   `json:"refresh_signing_key" koanf:"refresh_signing_key"`
	AccessTokenExpiration       string   `json:"access_token_expiration" koanf:"access_token_expiration"`
	RefreshTokenExpirationValue string   `json:"refresh_token_expiration" koanf:"refresh_token_expiration"`
	SigningMethod               string   `json:"signing_method" koanf:"signing_method"`
	ContextKey                  string   `json:"context_key" koanf:"context_key"`
	TokenLookup                 string   `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme                  string   `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer                      string   `json:"issuer" koanf:"issuer"`
	Audience                    []string `json:"audience" koanf:"audience"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.AccessSigningKey, validation.Required),
		validation.Field(&a.RefreshSigningKey, validation.Required),
	)
}

func (a *Auth) GetAccessSigningKey() string  { return a.AccessSigningKey }
func (a *Auth) GetRefreshSigningKey() string { return a.RefreshSigningKey }

func (a *Auth) GetAccessTokenExpiration() time.Duration {
	return mustDuration(a.AccessTokenExpiration, time.Minute*15)
}

func (a *Auth) GetRefreshTokenExpiration() time.Duration {
	return mustDuration(a.RefreshTokenExpirationValue, time.Hour*24*7)
}

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

func (a *Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "cookie:accessToken,header:Authorization"
	}
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a *Auth) GetIssuer() string     { return a.Issuer }
func (a *Auth) GetAudience() []string { return a.Audience }

type Persistence struct {
	Driver                string `json:"driver" koanf:"driver"`
	DSN                   string `json:"dsn" koanf:"dsn"`
	Server                string `json:"server" koanf:"server"`
	Debug                 bool   `json:"debug" koanf:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
}

func (p Persistence) GetDriver() string { return p.Driver }
func (p Persistence) GetDSN() string    { return p.DSN }
func (p Persistence) GetServer() string { return p.Server }
func (p Persistence) GetDebug() bool    { return p.Debug }

// GetOtelIdentifier satisfies persistence.Config; empty leaves otel disabled.
func (p Persistence) GetOtelIdentifier() string { return "" }

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

type Server struct {
	Addr string `json:"addr" koanf:"addr"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
	)
}

func (s Server) GetAddr() string { return s.Addr }

func mustDuration(expr string, def time.Duration) time.Duration {
	if expr == "" {
		return def
	}
	dur, err := time.ParseDuration(expr)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", expr),
		)
	}
	return dur
}
