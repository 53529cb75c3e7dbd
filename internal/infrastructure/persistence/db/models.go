package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a row of the users table.
type User struct {
	ID           uuid.UUID
	Name         string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project is a row of the projects table.
type Project struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Status      string
	Progress    int32
	DueDate     time.Time
	Tags        []string
	Members     int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
