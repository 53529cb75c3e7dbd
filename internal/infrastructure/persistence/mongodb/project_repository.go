package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

type projectDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	Progress    int       `bson:"progress"`
	DueDate     time.Time `bson:"dueDate"`
	Tags        []string  `bson:"tags"`
	Members     int       `bson:"members"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if _, err := r.coll.InsertOne(ctx, toProjectDocument(project)); err != nil {
		return fmt.Errorf("mongo insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, userID domain.UserID) ([]*domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find projects: %w", err)
	}
	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode projects: %w", err)
	}
	list := make([]*domain.Project, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (*domain.Project, error) {
	var doc projectDocument
	err := r.coll.FindOne(ctx, ownerFilter(userID, projectID)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo find project: %w", err)
	}
	return doc.toDomain()
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	res, err := r.coll.UpdateOne(ctx, ownerFilter(project.UserID, project.ID), bson.M{"$set": bson.M{
		"name":        project.Name,
		"description": project.Description,
		"status":      string(project.Status),
		"progress":    project.Progress,
		"dueDate":     project.DueDate,
		"tags":        tagsOrEmpty(project.Tags),
		"members":     project.Members,
		"updatedAt":   project.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("mongo update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domerrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) error {
	res, err := r.coll.DeleteOne(ctx, ownerFilter(userID, projectID))
	if err != nil {
		return fmt.Errorf("mongo delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domerrors.ErrProjectNotFound
	}
	return nil
}

func ownerFilter(userID domain.UserID, projectID domain.ProjectID) bson.M {
	return bson.M{"_id": projectID.String(), "userId": userID.String()}
}

func toProjectDocument(p *domain.Project) projectDocument {
	return projectDocument{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Progress:    p.Progress,
		DueDate:     p.DueDate,
		Tags:        tagsOrEmpty(p.Tags),
		Members:     p.Members,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d projectDocument) toDomain() (*domain.Project, error) {
	id, err := domain.ParseProjectID(d.ID)
	if err != nil {
		return nil, fmt.Errorf("mongo project id %q: %w", d.ID, err)
	}
	owner, err := domain.ParseUserID(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("mongo project owner %q: %w", d.UserID, err)
	}
	return &domain.Project{
		ID:          id,
		UserID:      owner,
		Name:        d.Name,
		Description: d.Description,
		Status:      domain.ProjectStatus(d.Status),
		Progress:    d.Progress,
		DueDate:     d.DueDate,
		Tags:        tagsOrEmpty(d.Tags),
		Members:     d.Members,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
