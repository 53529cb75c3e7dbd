package auth

import (
	"context"
	"fmt"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

// CurrentUser loads the account behind a resolved session identity.
type CurrentUser struct {
	users ports.UserRepository
}

func NewCurrentUser(users ports.UserRepository) *CurrentUser {
	return &CurrentUser{users: users}
}

// Execute returns ErrUnauthenticated for a nil identity and ErrUserNotFound when the account is gone.
func (uc *CurrentUser) Execute(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	user, err := uc.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return user, nil
}
