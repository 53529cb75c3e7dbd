package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

var owner = domain.NewUserID(uuid.MustParse("6f1c1f0e-4a44-4d0e-9d8a-0a8f3c2b1e11"))

func sampleProject(created time.Time) *domain.Project {
	return &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		UserID:      owner,
		Name:        "Apollo",
		Description: "Landing page redesign",
		Status:      domain.StatusAtRisk,
		Progress:    20,
		DueDate:     time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"web"},
		Members:     1,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func projectDoc(p *domain.Project) bson.D {
	return bson.D{
		{Key: "_id", Value: p.ID.String()},
		{Key: "userId", Value: p.UserID.String()},
		{Key: "name", Value: p.Name},
		{Key: "description", Value: p.Description},
		{Key: "status", Value: string(p.Status)},
		{Key: "progress", Value: p.Progress},
		{Key: "dueDate", Value: p.DueDate},
		{Key: "tags", Value: bson.A{"web"}},
		{Key: "members", Value: p.Members},
		{Key: "createdAt", Value: p.CreatedAt},
		{Key: "updatedAt", Value: p.UpdatedAt},
	}
}

func TestProjectRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	const ns = "devops.projects"

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, NewProjectRepository(mt.DB).Create(context.Background(), sampleProject(time.Now().UTC())))
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		newer := sampleProject(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
		older := sampleProject(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, projectDoc(newer), projectDoc(older))
		end := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, end)

		got, err := NewProjectRepository(mt.DB).ListByOwner(context.Background(), owner)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, newer, got[0])
		assert.Equal(mt, older, got[1])
	})

	mt.Run("list empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		got, err := NewProjectRepository(mt.DB).ListByOwner(context.Background(), owner)
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		got, err := NewProjectRepository(mt.DB).GetByID(context.Background(), owner, domain.NewProjectID(uuid.New()))
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		require.NoError(mt, NewProjectRepository(mt.DB).Update(context.Background(), sampleProject(time.Now().UTC())))
	})

	mt.Run("update not owned", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		err := NewProjectRepository(mt.DB).Update(context.Background(), sampleProject(time.Now().UTC()))
		require.ErrorIs(mt, err, domerrors.ErrProjectNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		repo := NewProjectRepository(mt.DB)
		id := domain.NewProjectID(uuid.New())
		require.NoError(mt, repo.Delete(context.Background(), owner, id))
		require.ErrorIs(mt, repo.Delete(context.Background(), owner, id), domerrors.ErrProjectNotFound)
	})
}
