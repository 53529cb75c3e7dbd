package project

import (
	"context"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
)

// ListStatus tells an empty list apart from a failed one.
type ListStatus string

const (
	ListOK              ListStatus = "ok"
	ListUnauthenticated ListStatus = "unauthenticated"
	ListDegraded        ListStatus = "degraded"
)

// ListProjectsResult always carries a non-nil Projects slice. Err is set only when Status is ListDegraded.
type ListProjectsResult struct {
	Status   ListStatus
	Projects []*domain.Project
	Err      error
}

// ListProjects returns the caller's projects, newest first.
type ListProjects struct {
	projectRepo ports.ProjectRepository
}

func NewListProjects(projectRepo ports.ProjectRepository) *ListProjects {
	return &ListProjects{projectRepo: projectRepo}
}

// Execute never fails. A nil identity or a store error both produce an empty list with a status.
func (uc *ListProjects) Execute(ctx context.Context, identity *domain.Identity) ListProjectsResult {
	if identity == nil {
		return ListProjectsResult{Status: ListUnauthenticated, Projects: []*domain.Project{}}
	}
	projects, err := uc.projectRepo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return ListProjectsResult{Status: ListDegraded, Projects: []*domain.Project{}, Err: err}
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return ListProjectsResult{Status: ListOK, Projects: projects}
}
