package taskboard_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	taskboard "github.com/goliatone/go-taskboard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validRegisterMessage() taskboard.RegisterUserMessage {
	return taskboard.RegisterUserMessage{
		Username: "pparker",
		FullName: "Peter Parker",
		Email:    "Peter@DailyBugle.com",
		Password: "with-great-power",
	}
}

func TestRegisterUserMessage_Validate(t *testing.T) {
	t.Run("accepts a complete message", func(t *testing.T) {
		assert.NoError(t, validRegisterMessage().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*taskboard.RegisterUserMessage)
	}{
		{"missing username", func(m *taskboard.RegisterUserMessage) { m.Username = "" }},
		{"username too short", func(m *taskboard.RegisterUserMessage) { m.Username = "bob" }},
		{"username too long", func(m *taskboard.RegisterUserMessage) { m.Username = "a-username-well-over-twenty-chars" }},
		{"missing full name", func(m *taskboard.RegisterUserMessage) { m.FullName = "" }},
		{"full name too long", func(m *taskboard.RegisterUserMessage) { m.FullName = "a full name that exceeds thirty characters" }},
		{"missing email", func(m *taskboard.RegisterUserMessage) { m.Email = "" }},
		{"invalid email", func(m *taskboard.RegisterUserMessage) { m.Email = "not-an-email" }},
		{"missing password", func(m *taskboard.RegisterUserMessage) { m.Password = "" }},
		{"password too short", func(m *taskboard.RegisterUserMessage) { m.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validRegisterMessage()
			tt.mutate(&msg)
			assert.Error(t, msg.Validate())
		})
	}
}

func TestRegisterUserHandler_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a user with a hashed password", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		users := repo.users

		var created *taskboard.User
		users.On("FindByUsernameOrEmail", mock.Anything, "pparker", "Peter@DailyBugle.com").
			Return(nil, repository.NewRecordNotFound())
		users.On("RegisterTx", mock.Anything, mock.Anything, mock.AnythingOfType("*taskboard.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*taskboard.User)
				if created.ID == uuid.Nil {
					created.ID = uuid.New()
				}
			}).
			Return(&taskboard.User{}, nil).
			Once()
		users.On("GetSanitizedByID", mock.Anything, mock.Anything).
			Return(&taskboard.User{Username: "pparker", Email: "peter@dailybugle.com"}, nil)

		handler := taskboard.NewRegisterUserHandler(repo).WithLogger(noopLogger{})

		user, err := handler.Execute(ctx, validRegisterMessage())

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Empty(t, user.PasswordHash)

		assert.NotNil(t, created)
		assert.Equal(t, "peter@dailybugle.com", created.Email)
		assert.NotEqual(t, "with-great-power", created.PasswordHash)
		assert.NoError(t, taskboard.ComparePasswordAndHash("with-great-power", created.PasswordHash))
	})

	t.Run("rejects a duplicate username or email", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.users.On("FindByUsernameOrEmail", mock.Anything, "pparker", "Peter@DailyBugle.com").
			Return(&taskboard.User{Username: "pparker"}, nil)

		handler := taskboard.NewRegisterUserHandler(repo).WithLogger(noopLogger{})

		user, err := handler.Execute(ctx, validRegisterMessage())

		assert.Nil(t, user)
		assert.ErrorIs(t, err, taskboard.ErrDuplicateIdentity)
		repo.users.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an incomplete message before touching storage", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		handler := taskboard.NewRegisterUserHandler(repo).WithLogger(noopLogger{})

		msg := validRegisterMessage()
		msg.Password = ""

		user, err := handler.Execute(ctx, msg)

		assert.Nil(t, user)
		assert.Error(t, err)

		var richErr *goerrors.Error
		assert.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
		repo.users.AssertNotCalled(t, "FindByUsernameOrEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bails out on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		repo := NewMockRepositoryManager()
		handler := taskboard.NewRegisterUserHandler(repo).WithLogger(noopLogger{})

		user, err := handler.Execute(cancelled, validRegisterMessage())

		assert.Nil(t, user)
		assert.Error(t, err)
	})
}
