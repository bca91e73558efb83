package taskboard_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-repository-bun"
	taskboard "github.com/goliatone/go-taskboard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, password string) (*taskboard.Auther, *MockUsers, *taskboard.User) {
	t.Helper()

	user := makeStoredUser(t, password)

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, mock.Anything).Return(user, nil)
	tracker.On("TrackAttemptedLogin", mock.Anything, mock.Anything).Return(nil)

	provider := taskboard.NewUserProvider(tracker)
	tokens := taskboard.NewTokenService(newTestConfig(), noopLogger{})

	users := &MockUsers{}

	return taskboard.NewAuthenticator(users, provider, tokens).WithLogger(noopLogger{}), users, user
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token pair and persists the refresh slot", func(t *testing.T) {
		auther, users, user := newTestAuthenticator(t, "with-great-power")

		var persisted string
		users.On("UpdateRefreshToken", ctx, user.ID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				persisted = args.String(2)
			}).
			Return(nil)

		// Sanitize a copy: the tracker hands Login the same pointer, and
		// the stored hash has to survive until the password check runs.
		sanitized := *user
		users.On("GetSanitizedByID", ctx, user.ID).Return(sanitized.Sanitize(), nil)

		result, err := auther.Login(ctx, "peter@dailybugle.com", "with-great-power")

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, result.RefreshToken, persisted)
		assert.NotNil(t, result.User)
		assert.Empty(t, result.User.PasswordHash)

		claims, err := auther.TokenService().ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, "pparker", claims.Username)

		users.AssertExpectations(t)
	})

	t.Run("issues nothing on bad credentials", func(t *testing.T) {
		auther, users, _ := newTestAuthenticator(t, "with-great-power")

		result, err := auther.Login(ctx, "peter@dailybugle.com", "wrong-password")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, taskboard.ErrMismatchedHashAndPassword)
		users.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuther_Refresh(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*taskboard.Auther, *MockUsers, *taskboard.User, string) {
		t.Helper()

		auther, users, user := newTestAuthenticator(t, "with-great-power")

		refreshToken, err := auther.TokenService().IssueRefreshToken(taskboard.IdentityFromUser(user))
		assert.NoError(t, err)
		user.RefreshToken = refreshToken

		return auther, users, user, refreshToken
	}

	t.Run("mints a new access token from a live refresh token", func(t *testing.T) {
		auther, users, user, refreshToken := setup(t)
		users.On("GetByIdentifier", ctx, user.ID.String()).Return(user, nil)

		accessToken, err := auther.Refresh(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := auther.TokenService().ValidateAccessToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		auther, _, _, _ := setup(t)

		accessToken, err := auther.Refresh(ctx, "")

		assert.Empty(t, accessToken)
		assert.ErrorIs(t, err, taskboard.ErrTokenMissing)
	})

	t.Run("rejects a superseded refresh token", func(t *testing.T) {
		auther, users, user, refreshToken := setup(t)

		// the stored slot was overwritten by a later login
		user.RefreshToken = "a-newer-token"
		users.On("GetByIdentifier", ctx, user.ID.String()).Return(user, nil)

		accessToken, err := auther.Refresh(ctx, refreshToken)

		assert.Empty(t, accessToken)
		assert.ErrorIs(t, err, taskboard.ErrTokenMalformed)
	})

	t.Run("rejects an access token used as a refresh token", func(t *testing.T) {
		auther, _, user, _ := setup(t)

		accessToken, err := auther.TokenService().IssueAccessToken(taskboard.IdentityFromUser(user))
		assert.NoError(t, err)

		got, err := auther.Refresh(ctx, accessToken)

		assert.Empty(t, got)
		assert.Error(t, err)
		assert.True(t, taskboard.IsMalformedError(err))
	})

	t.Run("rejects a refresh token for a deleted user with 401", func(t *testing.T) {
		auther, users, user, refreshToken := setup(t)
		users.On("GetByIdentifier", ctx, user.ID.String()).Return(nil, repository.NewRecordNotFound())

		accessToken, err := auther.Refresh(ctx, refreshToken)

		assert.Empty(t, accessToken)
		assert.ErrorIs(t, err, taskboard.ErrUnknownIdentity)
	})
}

func TestIdentityFromUser(t *testing.T) {
	id := uuid.New()
	user := &taskboard.User{
		ID:       id,
		Username: "mjwatson",
		Email:    "mj@dailybugle.com",
		FullName: "Mary Jane Watson",
	}

	identity := taskboard.IdentityFromUser(user)

	assert.Equal(t, id.String(), identity.ID())
	assert.Equal(t, "mjwatson", identity.Username())
	assert.Equal(t, "mj@dailybugle.com", identity.Email())
	assert.Equal(t, "Mary Jane Watson", identity.FullName())
}
