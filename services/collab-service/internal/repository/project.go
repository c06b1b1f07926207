package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
)

// ProjectRepository defines the interface for project-related database
// operations.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, params FilterProjectsParams) ([]*model.Project, error)
	UpdateProject(ctx context.Context, id string, params UpdateProjectParams) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// FilterProjectsParams defines the parameters for filtering projects.
type FilterProjectsParams struct {
	OwnerID  *string
	Archived *bool
}

// UpdateProjectParams defines the optional parameters for updating a
// project. Only the fields that are not nil will be updated.
type UpdateProjectParams struct {
	Title          *string
	Description    *string
	Category       *string
	Tags           *[]string
	RequiredSkills *[]string
	StartDate      *time.Time
	EndDate        *time.Time
	Archived       *bool
}

const projectCollection = "projects"

type projectMongoRepository struct {
	db *mongo.Database
}

// NewProjectMongoRepository creates the mongo-backed project repository.
func NewProjectMongoRepository(db *mongo.Database) ProjectRepository {
	return &projectMongoRepository{db: db}
}

func (r *projectMongoRepository) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	result, err := r.db.Collection(projectCollection).InsertOne(ctx, project)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		project.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return project, nil
}

func (r *projectMongoRepository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := r.db.Collection(projectCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectMongoRepository) ListProjects(
	ctx context.Context,
	params FilterProjectsParams,
) ([]*model.Project, error) {
	filter := bson.M{}
	if params.OwnerID != nil {
		ownerID, err := bson.ObjectIDFromHex(*params.OwnerID)
		if err != nil {
			return nil, err
		}
		filter["owner_id"] = ownerID
	}
	if params.Archived != nil {
		filter["archived"] = *params.Archived
	}

	cursor, err := r.db.Collection(projectCollection).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	for cursor.Next(ctx) {
		var project model.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, err
		}
		projects = append(projects, &project)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectMongoRepository) UpdateProject(
	ctx context.Context,
	id string,
	params UpdateProjectParams,
) (*model.Project, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Title != nil {
		updateMap["title"] = *params.Title
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Category != nil {
		updateMap["category"] = *params.Category
	}
	if params.Tags != nil {
		updateMap["tags"] = *params.Tags
	}
	if params.RequiredSkills != nil {
		updateMap["required_skills"] = *params.RequiredSkills
	}
	if params.StartDate != nil {
		updateMap["start_date"] = *params.StartDate
	}
	if params.EndDate != nil {
		updateMap["end_date"] = *params.EndDate
	}
	if params.Archived != nil {
		updateMap["archived"] = *params.Archived
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no project fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(projectCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var project model.Project
	if err := result.Decode(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectMongoRepository) DeleteProject(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(projectCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
