package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// ParseProjectID parses the canonical string form produced by String.
func ParseProjectID(s string) (ProjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProjectID{}, err
	}
	return ProjectID{UUID: id}, nil
}

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// ProjectStatus is the lifecycle label shown on the dashboard.
type ProjectStatus string

const (
	StatusJustStarted ProjectStatus = "Just Started"
	StatusInProgress  ProjectStatus = "In Progress"
	StatusOnTrack     ProjectStatus = "On Track"
	StatusAtRisk      ProjectStatus = "At Risk"
	StatusCompleted   ProjectStatus = "Completed"
)

// ProjectStatuses lists every valid status in display order.
var ProjectStatuses = []ProjectStatus{
	StatusJustStarted,
	StatusInProgress,
	StatusOnTrack,
	StatusAtRisk,
	StatusCompleted,
}

// Valid reports whether s is one of ProjectStatuses.
func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const (
	MinProjectNameLength        = 2
	MinProjectDescriptionLength = 5
	MinProjectProgress          = 0
	MaxProjectProgress          = 100
	DefaultProjectMembers       = 1
)

// Project belongs to exactly one owner. UserID is informational and not a foreign key.
type Project struct {
	ID          ProjectID
	UserID      UserID
	Name        string
	Description string
	Status      ProjectStatus
	Progress    int
	DueDate     time.Time
	Tags        []string
	Members     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
