package taskboard_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	taskboard "github.com/goliatone/go-taskboard"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured token expired error",
			err:      taskboard.ErrTokenExpired,
			expected: true,
		},
		{
			name:     "Legacy token expired error (string match)",
			err:      errors.New("some wrapper: token is expired"),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      taskboard.ErrIdentityNotFound,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := taskboard.IsTokenExpiredError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured malformed error",
			err:      taskboard.ErrTokenMalformed,
			expected: true,
		},
		{
			name:     "Legacy malformed error (string match)",
			err:      errors.New("token is malformed"),
			expected: true,
		},
		{
			name:     "Legacy missing JWT error (string match)",
			err:      errors.New("missing or malformed JWT"),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      taskboard.ErrTokenExpired,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := taskboard.IsMalformedError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestStructuredErrorProperties(t *testing.T) {
	t.Run("ErrIdentityNotFound", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryNotFound, taskboard.ErrIdentityNotFound.Category)
		assert.Equal(t, taskboard.TextCodeIdentityNotFound, taskboard.ErrIdentityNotFound.TextCode)
		assert.Equal(t, "identity not found", taskboard.ErrIdentityNotFound.Message)
	})

	t.Run("ErrUnknownIdentity", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, taskboard.ErrUnknownIdentity.Category)
		assert.Equal(t, goerrors.CodeUnauthorized, taskboard.ErrUnknownIdentity.Code)
		assert.Equal(t, taskboard.TextCodeIdentityNotFound, taskboard.ErrUnknownIdentity.TextCode)
	})

	t.Run("ErrMismatchedHashAndPassword", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, taskboard.ErrMismatchedHashAndPassword.Category)
		assert.Equal(t, taskboard.TextCodeInvalidCreds, taskboard.ErrMismatchedHashAndPassword.TextCode)
		assert.Equal(t, "the credentials provided are invalid", taskboard.ErrMismatchedHashAndPassword.Message)
	})

	t.Run("ErrTooManyLoginAttempts", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryRateLimit, taskboard.ErrTooManyLoginAttempts.Category)
		assert.Equal(t, taskboard.TextCodeTooManyAttempts, taskboard.ErrTooManyLoginAttempts.TextCode)
	})

	t.Run("ErrTokenMissing", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, taskboard.ErrTokenMissing.Category)
		assert.Equal(t, taskboard.TextCodeTokenMissing, taskboard.ErrTokenMissing.TextCode)
	})

	t.Run("ErrDuplicateIdentity", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryConflict, taskboard.ErrDuplicateIdentity.Category)
		assert.Equal(t, taskboard.TextCodeDuplicateIdentity, taskboard.ErrDuplicateIdentity.TextCode)
	})

	t.Run("ErrTaskNotFound", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryNotFound, taskboard.ErrTaskNotFound.Category)
		assert.Equal(t, taskboard.TextCodeTaskNotFound, taskboard.ErrTaskNotFound.TextCode)
	})

	t.Run("ErrNoChanges", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryValidation, taskboard.ErrNoChanges.Category)
		assert.Equal(t, taskboard.TextCodeNoChanges, taskboard.ErrNoChanges.TextCode)
	})
}
