package taskboard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ChangePasswordMessage struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password"`
	NewPassword string    `json:"new_password"`
}

func (e ChangePasswordMessage) Type() string { return "user.change_password" }

func (e ChangePasswordMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.OldPassword,
			validation.Required,
		),
		validation.Field(
			&e.NewPassword,
			validation.Required,
			validation.Length(8, 0),
		),
	)
}

type ChangePasswordHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewChangePasswordHandler(repo RepositoryManager) *ChangePasswordHandler {
	return &ChangePasswordHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *ChangePasswordHandler) WithLogger(logger Logger) *ChangePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute rotates a user's password. The current password has to verify
// against the stored hash before the new one is hashed and persisted.
func (h *ChangePasswordHandler) Execute(ctx context.Context, event ChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ChangePasswordHandler) execute(ctx context.Context, event ChangePasswordMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "old and new passwords are required").
			WithCode(goerrors.CodeBadRequest)
	}

	if event.OldPassword == event.NewPassword {
		return goerrors.New("new password must be different from the current one", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.UserID.String())
		if err != nil {
			if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		if err := ComparePasswordAndHash(event.OldPassword, user.PasswordHash); err != nil {
			return err
		}

		hash, err := HashPassword(event.NewPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		if err := h.repo.Users().SetPasswordTx(ctx, tx, user.ID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}

		return nil
	})
}
