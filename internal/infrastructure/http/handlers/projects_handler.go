package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/project"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/middleware"
)

const (
	msgLoginRequired   = "You must be logged in to create a project"
	msgProjectCreated  = "Project created successfully!"
	msgProjectNotSaved = "An error occurred while creating the project. Please try again."
)

type ProjectsHandler struct {
	create  *project.CreateProject
	list    *project.ListProjects
	auditor *Auditor
	log     zerolog.Logger
}

func NewProjectsHandler(create *project.CreateProject, list *project.ListProjects, auditor *Auditor, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{create: create, list: list, auditor: auditor, log: log}
}

// ProjectResponse is one project as the dashboard renders it.
type ProjectResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
	Members     int      `json:"members"`
	UserID      string   `json:"userId"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type listResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Status   string            `json:"status"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeResult(w, http.StatusUnauthorized, false, msgLoginRequired)
		return
	}
	form, err := readForm(w, r)
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, msgInvalidBody)
		return
	}
	res, err := h.create.Execute(r.Context(), identity, project.CreateProjectInput{
		Name:        firstValue(form, "name"),
		Description: firstValue(form, "description"),
		Status:      firstValue(form, "status"),
		Progress:    firstValue(form, "progress"),
		DueDate:     firstValue(form, "dueDate"),
		Tags:        form["tags"],
	})
	if err != nil {
		if ve, ok := domerrors.AsValidation(err); ok {
			writeResult(w, http.StatusBadRequest, false, ve.Message)
			return
		}
		if errors.Is(err, domerrors.ErrUnauthenticated) {
			writeResult(w, http.StatusUnauthorized, false, msgLoginRequired)
			return
		}
		h.log.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("create project failed")
		h.auditor.Emit(r, EventProjectCreate, identity.UserID.String(), "", false, err.Error())
		writeResult(w, http.StatusInternalServerError, false, msgProjectNotSaved)
		return
	}
	h.auditor.Emit(r, EventProjectCreate, identity.UserID.String(), res.Project.ID.String(), true, "")
	middleware.RecordProjectCreated()
	writeResult(w, http.StatusCreated, true, msgProjectCreated)
}

// List always answers 200 with a projects array; status says whether the list can be trusted.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.list.Execute(r.Context(), middleware.IdentityFromContext(r.Context()))
	if res.Status == project.ListDegraded {
		h.log.Error().Err(res.Err).Msg("list projects failed, answering with an empty list")
		middleware.RecordProjectListDegraded()
	}
	items := make([]ProjectResponse, 0, len(res.Projects))
	for _, p := range res.Projects {
		items = append(items, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, listResponse{Projects: items, Status: string(res.Status)})
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Progress:    p.Progress,
		DueDate:     p.DueDate.Format(time.RFC3339),
		Tags:        tags,
		Members:     p.Members,
		UserID:      p.UserID.String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
