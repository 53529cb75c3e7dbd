// Package memory keeps users and projects in process memory. It backs local development and the
// HTTP tests; nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[domain.UserID]domain.User
	byUsername map[string]domain.UserID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[domain.UserID]domain.User),
		byUsername: make(map[string]domain.UserID),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (domain.UserID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byUsername[user.Username]; taken {
		return domain.UserID{}, domerrors.ErrUserExists
	}
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Ping satisfies the health check.
func (r *UserRepository) Ping(context.Context) error { return nil }

type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[domain.ProjectID]domain.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[domain.ProjectID]domain.Project)}
}

func (r *ProjectRepository) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *ProjectRepository) ListByOwner(_ context.Context, userID domain.UserID) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Project, 0)
	for _, p := range r.projects {
		if p.UserID != userID {
			continue
		}
		cp := cloneProject(p)
		list = append(list, &cp)
	}
	slices.SortStableFunc(list, func(a, b *domain.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list, nil
}

func (r *ProjectRepository) GetByID(_ context.Context, userID domain.UserID, projectID domain.ProjectID) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[projectID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	cp := cloneProject(p)
	return &cp, nil
}

func (r *ProjectRepository) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return domerrors.ErrProjectNotFound
	}
	updated := cloneProject(*project)
	updated.CreatedAt = existing.CreatedAt
	r.projects[project.ID] = updated
	return nil
}

func (r *ProjectRepository) Delete(_ context.Context, userID domain.UserID, projectID domain.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok || p.UserID != userID {
		return domerrors.ErrProjectNotFound
	}
	delete(r.projects, projectID)
	return nil
}

func cloneProject(p domain.Project) domain.Project {
	p.Tags = append([]string{}, p.Tags...)
	return p
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.ProjectRepository = (*ProjectRepository)(nil)
)
