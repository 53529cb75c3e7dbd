package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

var projectCols = strings.Split("id,user_id,name,description,status,progress,due_date,tags,members,created_at,updated_at", ",")

const selectProjectRe = `(?s)^SELECT\s+id,\s*user_id,\s*name,\s*description,\s*status,\s*progress,\s*due_date,\s*tags,\s*members,\s*created_at,\s*updated_at\s+FROM\s+projects\s+WHERE\s+`

var owner = domain.NewUserID(uuid.MustParse("6f1c1f0e-4a44-4d0e-9d8a-0a8f3c2b1e11"))

func sampleProject(created time.Time) *domain.Project {
	return &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		UserID:      owner,
		Name:        "Apollo",
		Description: "Landing page redesign",
		Status:      domain.StatusOnTrack,
		Progress:    60,
		DueDate:     time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"web", "design"},
		Members:     1,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func addProjectRow(rows *sqlmock.Rows, p *domain.Project, tags string) *sqlmock.Rows {
	return rows.AddRow(p.ID.String(), p.UserID.String(), p.Name, p.Description, string(p.Status),
		p.Progress, p.DueDate, tags, p.Members, p.CreatedAt, p.UpdatedAt)
}

func TestProjectRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+projects\s*\(id,.*updated_at\)\s*VALUES\s*\(\$1,.*\$11\)$`).
		WithArgs(p.ID.UUID, owner.UUID, "Apollo", "Landing page redesign", "On Track", 60, p.DueDate,
			[]string{"web", "design"}, 1, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
}

func TestProjectRepository_CreateNilTagsStoredEmpty(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())
	p.Tags = nil

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+projects`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), []string{}, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
}

func TestProjectRepository_ListByOwnerNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	newer := sampleProject(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	older := sampleProject(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	older.Tags = []string{}

	rows := sqlmock.NewRows(projectCols)
	addProjectRow(rows, newer, "{web,design}")
	addProjectRow(rows, older, "{}")
	mock.ExpectQuery(selectProjectRe + `user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`).
		WithArgs(owner.UUID).
		WillReturnRows(rows)

	got, err := NewProjectRepository(db).ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	if diff := cmp.Diff([]*domain.Project{newer, older}, got); diff != "" {
		t.Fatalf("ListByOwner mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectRepository_ListByOwnerError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(selectProjectRe).WillReturnError(errors.New("timeout"))

	got, err := NewProjectRepository(db).ListByOwner(context.Background(), owner)
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestProjectRepository_GetByIDScopedToOwner(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())

	mock.ExpectQuery(selectProjectRe + `id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs(p.ID.UUID, owner.UUID).
		WillReturnRows(addProjectRow(sqlmock.NewRows(projectCols), p, "{web,design}"))
	mock.ExpectQuery(selectProjectRe).
		WillReturnError(sql.ErrNoRows)

	repo := NewProjectRepository(db)
	got, err := repo.GetByID(context.Background(), owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Tags, got.Tags)

	stranger := domain.NewUserID(uuid.New())
	got, err = repo.GetByID(context.Background(), stranger, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectRepository_UpdateLocksThenWrites(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())
	p.Progress = 100
	p.Status = domain.StatusCompleted

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+id\s+FROM\s+projects\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE$`).
		WithArgs(p.ID.UUID, owner.UUID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(p.ID.String()))
	mock.ExpectExec(`(?s)^UPDATE\s+projects\s+SET\s+name\s*=\s*\$1,.*WHERE\s+id\s*=\s*\$9\s+AND\s+user_id\s*=\s*\$10$`).
		WithArgs("Apollo", "Landing page redesign", "Completed", 100, p.DueDate, []string{"web", "design"}, 1,
			p.UpdatedAt, p.ID.UUID, owner.UUID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewProjectRepository(db).Update(context.Background(), p))
}

func TestProjectRepository_UpdateMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE$`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := NewProjectRepository(db).Update(context.Background(), p)
	require.ErrorIs(t, err, domerrors.ErrProjectNotFound)
}

func TestProjectRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	p := sampleProject(time.Now().UTC())

	del := `(?s)^DELETE\s+FROM\s+projects\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectExec(del).WithArgs(p.ID.UUID, owner.UUID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs(p.ID.UUID, owner.UUID).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProjectRepository(db)
	require.NoError(t, repo.Delete(context.Background(), owner, p.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), owner, p.ID), domerrors.ErrProjectNotFound)
}
