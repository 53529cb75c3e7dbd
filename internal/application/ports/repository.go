package ports

import (
	"context"

	"github.com/Asjad-Ilahi/devops/internal/domain"
)

// UserRepository persists dashboard accounts. Lookups return (nil, nil) when nothing matches.
// Create returns domerrors.ErrUserExists when the username is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (domain.UserID, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
}

// ProjectRepository persists projects. Every read and write is scoped to the owning user.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// ListByOwner returns the owner's projects, newest first.
	ListByOwner(ctx context.Context, userID domain.UserID) ([]*domain.Project, error)
	GetByID(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (*domain.Project, error)
	// Update replaces the mutable fields; returns domerrors.ErrProjectNotFound when the owner has no such project.
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) error
}
