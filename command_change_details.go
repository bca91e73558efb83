package taskboard

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ChangeDetailsMessage struct {
	UserID   uuid.UUID `json:"-"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

func (e ChangeDetailsMessage) Type() string { return "user.change_details" }

func (e ChangeDetailsMessage) Validate() error {
	if e.Username == "" && e.FullName == "" && e.Email == "" {
		return goerrors.New("at least one field is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Length(5, 20),
		),
		validation.Field(
			&e.FullName,
			validation.Length(1, 30),
		),
		validation.Field(
			&e.Email,
			is.Email,
		),
	)
}

type ChangeDetailsHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewChangeDetailsHandler(repo RepositoryManager) *ChangeDetailsHandler {
	return &ChangeDetailsHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *ChangeDetailsHandler) WithLogger(logger Logger) *ChangeDetailsHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute updates profile fields. Only fields that differ from the stored
// record are written; if every provided field matches, the update is
// rejected with ErrNoChanges.
func (h *ChangeDetailsHandler) Execute(ctx context.Context, event ChangeDetailsMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during details change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ChangeDetailsHandler) execute(ctx context.Context, event ChangeDetailsMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid details provided").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.UserID.String())
		if err != nil {
			if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		changed := false

		if username := strings.ToLower(event.Username); username != "" && username != current.Username {
			current.Username = username
			changed = true
		}

		if event.FullName != "" && event.FullName != current.FullName {
			current.FullName = event.FullName
			changed = true
		}

		if email := strings.ToLower(event.Email); email != "" && email != current.Email {
			current.Email = email
			changed = true
		}

		if !changed {
			return ErrNoChanges
		}

		if user, err = h.repo.Users().UpdateTx(ctx, tx, current); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not update user").
				WithCode(goerrors.CodeConflict)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "details change transaction failed")
	}

	updated, err := h.repo.Users().GetSanitizedByID(ctx, user.ID)
	if err != nil || updated == nil {
		h.logger.Error("ChangeDetails read-back failed", "error", err)
		return nil, goerrors.New("something went wrong updating the user", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}

	return updated, nil
}
