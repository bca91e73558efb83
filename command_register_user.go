package taskboard

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required,
			validation.Length(5, 20),
		),
		validation.Field(
			&e.FullName,
			validation.Required,
			validation.Length(1, 30),
		),
		validation.Field(
			&e.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&e.Password,
			validation.Required,
			validation.Length(8, 0),
		),
	)
}

type RegisterUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute registers a new user: conflict pre-check by username or email,
// password hashed before the write, sanitized read-back after it.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "all fields are required").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := h.repo.Users().FindByUsernameOrEmail(ctx, event.Username, event.Email)
		if err != nil && !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}
		if existing != nil {
			return ErrDuplicateIdentity
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Username = event.Username
		user.FullName = event.FullName
		user.Email = strings.ToLower(event.Email)

		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
				WithCode(goerrors.CodeConflict)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	created, err := h.repo.Users().GetSanitizedByID(ctx, user.ID)
	if err != nil || created == nil {
		h.logger.Error("Register read-back failed", "error", err)
		return nil, goerrors.New("something went wrong creating the user", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}

	return created, nil
}
