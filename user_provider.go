package taskboard

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserTracker is a store we can use to retrieve users
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
}

// UserProvider handles users
type UserProvider struct {
	store  UserTracker
	logger Logger
}

// MaxLoginAttempts is the maximum number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return identity
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrUnknownIdentity
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrUnknownIdentity
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrMismatchedHashAndPassword
	}

	return IdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identifier without a credential check
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrUnknownIdentity
	}

	return IdentityFromUser(user), nil
}

var _ IdentityProvider = UserProvider{}
