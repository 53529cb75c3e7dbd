package auth

import (
	"context"
	"fmt"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token string
	User  *domain.User
}

// LockedError is returned while an account is cooling down after repeated failures.
type LockedError struct {
	RetryAfterSeconds int
}

func (e *LockedError) Error() string { return domerrors.ErrAccountLocked.Error() }

func (e *LockedError) Unwrap() error { return domerrors.ErrAccountLocked }

type Login struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	issuer  ports.TokenIssuer
	lockout ports.LoginLockoutStore
}

// NewLogin builds the use case. lockout may be nil.
func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, lockout ports.LoginLockoutStore) *Login {
	return &Login{
		users:   users,
		hasher:  hasher,
		issuer:  issuer,
		lockout: lockout,
	}
}

// Execute verifies the credentials and issues a session token. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := NormalizeUsername(input.Username)
	if username == "" || input.Password == "" {
		return nil, domerrors.NewValidationError("", MsgFieldsRequired)
	}
	if uc.lockout != nil {
		if locked, retry := uc.lockout.IsLocked(ctx, username); locked {
			return nil, &LockedError{RetryAfterSeconds: retry}
		}
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if user == nil || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		if uc.lockout != nil {
			uc.lockout.RecordFailure(ctx, username)
		}
		return nil, domerrors.ErrInvalidCredentials
	}
	token, err := uc.issuer.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, username)
	}
	return &LoginResult{Token: token, User: user}, nil
}
