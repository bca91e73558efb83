package taskboard

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
)

func RegisterAuthRoutes[T any](app router.Router[T], protected router.MiddlewareFunc, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("users.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("users.login")

	app.Post(controller.Routes.RefreshToken, controller.RefreshToken).
		SetName("users.refresh-token")

	app.Post(controller.Routes.Logout, controller.LogOut).
		SetName("users.logout")

	app.Put(controller.Routes.ChangePassword, protected(controller.ChangePassword)).
		SetName("users.change-password")

	app.Put(controller.Routes.ChangeDetails, protected(controller.ChangeDetails)).
		SetName("users.change-details")

	app.Get(controller.Routes.CurrentUser, protected(controller.CurrentUser)).
		SetName("users.current")
}

type AuthControllerRoutes struct {
	Register       string
	Login          string
	RefreshToken   string
	Logout         string
	ChangePassword string
	ChangeDetails  string
	CurrentUser    string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     Authenticator
	Cookies    *CookieWriter
	ContextKey string
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithCookieWriter(cookies *CookieWriter) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Cookies = cookies
		return c
	}
}

func WithAuthContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: "user",
		Routes: &AuthControllerRoutes{
			Register:       "/users/register",
			Login:          "/users/login",
			RefreshToken:   "/users/refresh-token",
			Logout:         "/users/logout",
			ChangePassword: "/users/change-password",
			ChangeDetails:  "/users/change-details",
			CurrentUser:    "/users/current-user",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Cookies == nil {
		panic("Missing CookieWriter in auth controller...")
	}

	return c
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegisterUserMessage)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return RespondError(ctx, a.Logger, badRequest("failed to parse request body", err))
	}

	registerUser := NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)

	user, err := registerUser.Execute(ctx.Context(), *payload)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return RespondOK(ctx, http.StatusCreated, "user registered successfully", user)
}

// LoginRequest payload. Either username or email identifies the account.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.By(func(any) error {
				if r.Username == "" && r.Email == "" {
					return errors.New("username or email is required")
				}
				return nil
			}),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// Identifier returns whichever account handle the request carries.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return RespondError(ctx, a.Logger, badRequest("failed to parse request body", err))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, a.Logger, badRequest("username or email and password are required", err))
	}

	result, err := a.Auther.Login(ctx.Context(), payload.Identifier(), payload.Password)
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return RespondError(ctx, a.Logger, err)
	}

	a.Cookies.SetSessionCookies(ctx, result.AccessToken, result.RefreshToken)

	return RespondOK(ctx, http.StatusOK, "login successful", result)
}

// RefreshRequest payload, used when the client does not carry the cookie
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// RefreshToken mints a new access token. The refresh token is taken from
// the cookie first, then from the request body.
func (a *AuthController) RefreshToken(ctx router.Context) error {
	refreshToken := ctx.Cookies(RefreshTokenCookie)

	if refreshToken == "" {
		payload := new(RefreshRequest)
		if err := ctx.Bind(payload); err == nil {
			refreshToken = payload.RefreshToken
		}
	}

	accessToken, err := a.Auther.Refresh(ctx.Context(), refreshToken)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	a.Cookies.SetSessionCookies(ctx, accessToken, "")

	return RespondOK(ctx, http.StatusOK, "access token refreshed", map[string]string{
		"access_token": accessToken,
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Cookies.ClearSessionCookies(ctx)
	return RespondOK(ctx, http.StatusOK, "logged out", nil)
}

// ChangePasswordRequest payload
type ChangePasswordRequest struct {
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

func (a *AuthController) ChangePassword(ctx router.Context) error {
	user, ok := GetRouterUser(ctx, a.ContextKey)
	if !ok {
		return RespondError(ctx, a.Logger, ErrTokenMissing)
	}

	payload := new(ChangePasswordRequest)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("change password parse payload: ", "error", err)
		return RespondError(ctx, a.Logger, badRequest("failed to parse request body", err))
	}

	changePassword := NewChangePasswordHandler(a.Repo).WithLogger(a.Logger)

	err := changePassword.Execute(ctx.Context(), ChangePasswordMessage{
		UserID:      user.ID,
		OldPassword: payload.OldPassword,
		NewPassword: payload.NewPassword,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "password updated successfully", nil)
}

// ChangeDetailsRequest payload
type ChangeDetailsRequest struct {
	NewUsername string `form:"newUsername" json:"newUsername"`
	NewFullName string `form:"newFullName" json:"newFullName"`
	NewEmail    string `form:"newEmail" json:"newEmail"`
}

func (a *AuthController) ChangeDetails(ctx router.Context) error {
	user, ok := GetRouterUser(ctx, a.ContextKey)
	if !ok {
		return RespondError(ctx, a.Logger, ErrTokenMissing)
	}

	payload := new(ChangeDetailsRequest)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("change details parse payload: ", "error", err)
		return RespondError(ctx, a.Logger, badRequest("failed to parse request body", err))
	}

	changeDetails := NewChangeDetailsHandler(a.Repo).WithLogger(a.Logger)

	updated, err := changeDetails.Execute(ctx.Context(), ChangeDetailsMessage{
		UserID:   user.ID,
		Username: payload.NewUsername,
		FullName: payload.NewFullName,
		Email:    payload.NewEmail,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return RespondOK(ctx, http.StatusOK, "details updated successfully", updated)
}

func (a *AuthController) CurrentUser(ctx router.Context) error {
	user, ok := GetRouterUser(ctx, a.ContextKey)
	if !ok {
		return RespondError(ctx, a.Logger, ErrTokenMissing)
	}

	return RespondOK(ctx, http.StatusOK, "current user", user.Sanitize())
}
