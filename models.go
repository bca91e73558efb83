package taskboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TaskStatus is a task's workflow state
type TaskStatus = string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "inProgress"
	StatusCompleted  TaskStatus = "completed"
	StatusBacklog    TaskStatus = "backlog"
)

// User is the user model. PasswordHash and RefreshToken never serialize to
// JSON; every response body carries the sanitized projection by construction.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string      `bun:"username,notnull,unique" json:"username,omitempty"`
	FullName       string      `bun:"full_name,notnull" json:"full_name,omitempty"`
	Email          string      `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string      `bun:"password_hash,notnull" json:"-"`
	RefreshToken   string      `bun:"refresh_token,nullzero" json:"-"`
	TaskIDs        []uuid.UUID `bun:"task_ids,type:jsonb" json:"task_ids,omitempty"`
	LoginAttempts  int         `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time  `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time  `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasTask reports whether the ownership link for taskID exists
func (u *User) HasTask(taskID uuid.UUID) bool {
	for _, id := range u.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Sanitize clears the credential fields in place and returns the user. The
// JSON tags already omit them; this covers code paths that hand the record to
// loggers or template data.
func (u *User) Sanitize() *User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// Task is the task model. A task carries no owner column: ownership is
// recorded only as the forward reference in users.task_ids.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description,notnull" json:"description,omitempty"`
	Status        TaskStatus `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// authIdentity adapts a User record to the Identity interface
type authIdentity struct {
	id       string
	username string
	email    string
	fullName string
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) FullName() string { return a.fullName }

// IdentityFromUser builds the Identity projection used for token claims
func IdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		fullName: user.FullName,
	}
}
