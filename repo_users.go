package taskboard

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdateRefreshTokenSQL overwrites the single refresh-token slot. Each login
// supersedes the prior session; concurrent logins race and the last writer
// wins.
var UpdateRefreshTokenSQL = `UPDATE "users" AS "usr"
SET
	"refresh_token" = ?,
	"loggedin_at" = ?,
	"login_attempt_at" = NULL,
	"login_attempts" = 0,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

// SetPasswordSQL persists a digest computed by the caller. There is no
// implicit rehash hook anywhere: code paths that set a password hash it
// first, explicitly.
var SetPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

// AppendUserTaskSQL appends one task id to the ordered ownership list as a
// single atomic statement, independent of the task insert itself.
var AppendUserTaskSQL = `UPDATE "users" AS "usr"
SET
	"task_ids" = json_insert(COALESCE("task_ids", '[]'), '$[#]', ?),
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	GetSanitizedByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error
	UpdateRefreshTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, refreshToken string) error
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
	AppendTask(ctx context.Context, id uuid.UUID, taskID uuid.UUID) error
	AppendTaskTx(ctx context.Context, tx bun.IDB, id uuid.UUID, taskID uuid.UUID) error

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	options := resolveUserIdentifier(identifier)
	if len(options) == 0 {
		options = []identifierOption{
			{
				column: "id",
				value:  strings.TrimSpace(identifier),
			},
		}
	}

	for _, opt := range options {
		record := &User{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

// GetSanitizedByID resolves a user excluding the credential columns, the
// projection handed to request contexts and response bodies.
func (a *users) GetSanitizedByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		ExcludeColumn("password_hash", "refresh_token").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// FindByUsernameOrEmail is the registration conflict pre-check. The unique
// indexes on username and email remain the enforcement of last resort.
func (a *users) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.username = ?", strings.ToLower(strings.TrimSpace(username))).
				WhereOr("?TableAlias.email = ?", strings.ToLower(strings.TrimSpace(email)))
		}).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
					"email":    email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	return a.UpdateRefreshTokenTx(ctx, a.db, id, refreshToken)
}

func (a *users) UpdateRefreshTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, refreshToken string) error {
	loggedInAt := time.Now()
	res, err := a.Repository.RawTx(ctx, tx, UpdateRefreshTokenSQL, refreshToken, loggedInAt, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.SetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, SetPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) AppendTask(ctx context.Context, id uuid.UUID, taskID uuid.UUID) error {
	return a.AppendTaskTx(ctx, a.db, id, taskID)
}

func (a *users) AppendTaskTx(ctx context.Context, tx bun.IDB, id uuid.UUID, taskID uuid.UUID) error {
	res, err := a.Repository.RawTx(ctx, tx, AppendUserTaskSQL, taskID.String(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(user.ID.String()),
	}

	record := &User{}
	record.ID = user.ID
	record.LoginAttempts = user.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, criteria...)

	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	record.Username = strings.ToLower(strings.TrimSpace(record.Username))
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 3)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  strings.ToLower(trimmed),
		})
	}

	options = append(options, identifierOption{
		column: "username",
		value:  strings.ToLower(trimmed),
	})

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
