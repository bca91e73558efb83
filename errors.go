package taskboard

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenMissing       = "TOKEN_MISSING"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	TextCodeTaskNotFound       = "TASK_NOT_FOUND"
	TextCodeNoChanges          = "NO_CHANGES"
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
)

// ErrIdentityNotFound is returned when no user matches the given identifier
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrUnknownIdentity rejects credentials or tokens that name no stored
// user. Auth flows answer 401 for a missing account, not 404, so probing
// for registered usernames costs the same as a wrong password.
var ErrUnknownIdentity = errors.New("user not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeIdentityNotFound)

// ErrMismatchedHashAndPassword is the uniform bad-credentials error
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts signals the login cooldown window is active
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrTokenMissing is returned when a request carries no bearer credential
var ErrTokenMissing = errors.New("missing authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMissing)

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad signatures and undecodable tokens
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTaskNotFound is returned when a task id resolves to nothing
var ErrTaskNotFound = errors.New("task not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeTaskNotFound)

// ErrDuplicateIdentity is returned when username or email is already taken
var ErrDuplicateIdentity = errors.New("username or email already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeDuplicateIdentity)

// ErrNoChanges is returned when an update payload matches the stored record
var ErrNoChanges = errors.New("no changes to update", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeNoChanges)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
