package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/persistence/db"
)

const projectColumns = `id, user_id, name, description, status, progress, due_date, tags, members, created_at, updated_at`

const (
	createProjectSQL = `INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	listProjectsByOwnerSQL = `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY created_at DESC`
	getProjectSQL          = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND user_id = $2`
	lockProjectSQL         = `SELECT id FROM projects WHERE id = $1 AND user_id = $2 FOR UPDATE`
	updateProjectSQL       = `UPDATE projects
SET name = $1, description = $2, status = $3, progress = $4, due_date = $5, tags = $6, members = $7, updated_at = $8
WHERE id = $9 AND user_id = $10`
	deleteProjectSQL = `DELETE FROM projects WHERE id = $1 AND user_id = $2`
)

type ProjectRepository struct {
	db    *sql.DB
	types *pgtype.Map
}

func NewProjectRepository(conn *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: conn, types: pgtype.NewMap()}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	_, err := r.db.ExecContext(ctx, createProjectSQL,
		project.ID.UUID,
		project.UserID.UUID,
		project.Name,
		project.Description,
		string(project.Status),
		project.Progress,
		project.DueDate,
		tagsOrEmpty(project.Tags),
		project.Members,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, userID domain.UserID) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, listProjectsByOwnerSQL, userID.UUID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, dbProjectToDomain(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (*domain.Project, error) {
	p, err := r.scan(r.db.QueryRowContext(ctx, getProjectSQL, projectID.UUID, userID.UUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return dbProjectToDomain(p), nil
}

// Update locks the owner's row before writing so concurrent edits serialise.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		var id string
		if err := tx.QueryRowContext(ctx, lockProjectSQL, project.ID.UUID, project.UserID.UUID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domerrors.ErrProjectNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		_, err := tx.ExecContext(ctx, updateProjectSQL,
			project.Name,
			project.Description,
			string(project.Status),
			project.Progress,
			project.DueDate,
			tagsOrEmpty(project.Tags),
			project.Members,
			project.UpdatedAt,
			project.ID.UUID,
			project.UserID.UUID,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *ProjectRepository) Delete(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) error {
	res, err := r.db.ExecContext(ctx, deleteProjectSQL, projectID.UUID, userID.UUID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domerrors.ErrProjectNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProjectRepository) scan(row rowScanner) (db.Project, error) {
	var p db.Project
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.Progress,
		&p.DueDate,
		r.types.SQLScanner(&p.Tags),
		&p.Members,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func dbProjectToDomain(p db.Project) *domain.Project {
	return &domain.Project{
		ID:          domain.NewProjectID(p.ID),
		UserID:      domain.NewUserID(p.UserID),
		Name:        p.Name,
		Description: p.Description,
		Status:      domain.ProjectStatus(p.Status),
		Progress:    int(p.Progress),
		DueDate:     p.DueDate,
		Tags:        tagsOrEmpty(p.Tags),
		Members:     int(p.Members),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Ensure ProjectRepository implements ports.ProjectRepository.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)
