package project

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

// CreateProjectInput is the raw form submission. Progress and DueDate stay strings until validated.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      string
	Progress    string
	DueDate     string
	Tags        []string
}

// CreateProjectResult returns the stored project.
type CreateProjectResult struct {
	Project *domain.Project
}

// CreateProject validates a submission and stores it for the calling user.
type CreateProject struct {
	projectRepo ports.ProjectRepository
	validate    *validator.Validate
	now         func() time.Time
}

// NewCreateProject builds the use case.
func NewCreateProject(projectRepo ports.ProjectRepository) *CreateProject {
	return &CreateProject{projectRepo: projectRepo, validate: newValidator(), now: time.Now}
}

// Execute requires an identity; without one it returns domerrors.ErrUnauthenticated before validating.
func (uc *CreateProject) Execute(ctx context.Context, identity *domain.Identity, input CreateProjectInput) (*CreateProjectResult, error) {
	if identity == nil {
		return nil, domerrors.ErrUnauthenticated
	}
	if err := validateForm(uc.validate, projectForm{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Progress:    input.Progress,
		DueDate:     input.DueDate,
	}); err != nil {
		return nil, err
	}
	progress, _ := parseProgress(input.Progress)
	dueDate, _ := parseDueDate(input.DueDate)
	now := uc.now().UTC()
	project := &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		UserID:      identity.UserID,
		Name:        input.Name,
		Description: input.Description,
		Status:      domain.ProjectStatus(input.Status),
		Progress:    progress,
		DueDate:     dueDate,
		Tags:        cleanTags(input.Tags),
		Members:     domain.DefaultProjectMembers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("store project: %w", err)
	}
	return &CreateProjectResult{Project: project}, nil
}
