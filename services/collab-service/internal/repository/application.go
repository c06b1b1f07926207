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

// ApplicationRepository defines the interface for application-related
// database operations.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application *model.Application) (*model.Application, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	GetUserProjectApplication(ctx context.Context, userID, projectID string) (*model.Application, error)
	ListUserApplications(ctx context.Context, userID string) ([]*model.Application, error)
	ListProjectApplications(ctx context.Context, projectID string) ([]*model.Application, error)
	UpdateApplication(ctx context.Context, id string, params UpdateApplicationParams) (*model.Application, error)

	// TransitionStatus atomically moves the application from one status to
	// another. The previous status is part of the update filter, so under
	// concurrent transitions at most one caller wins; the losers get
	// mongo.ErrNoDocuments.
	TransitionStatus(ctx context.Context, id string, from, to model.ApplicationStatus) (*model.Application, error)

	DeleteApplication(ctx context.Context, id string) error
	DeleteProjectApplications(ctx context.Context, projectID string) error
}

// UpdateApplicationParams defines the optional non-status fields of an
// application. Only the fields that are not nil will be updated.
type UpdateApplicationParams struct {
	Role             *string
	Skills           *[]string
	ReasonForJoining *string
	Availability     *string
}

const applicationCollection = "applications"

type applicationMongoRepository struct {
	db *mongo.Database
}

// NewApplicationMongoRepository creates the mongo-backed application
// repository.
func NewApplicationMongoRepository(db *mongo.Database) ApplicationRepository {
	return &applicationMongoRepository{db: db}
}

func (r *applicationMongoRepository) CreateApplication(
	ctx context.Context,
	application *model.Application,
) (*model.Application, error) {
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now
	application.Status = model.ApplicationPending

	result, err := r.db.Collection(applicationCollection).InsertOne(ctx, application)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		application.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return application, nil
}

func (r *applicationMongoRepository) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var application model.Application
	if err := r.db.Collection(applicationCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) GetUserProjectApplication(
	ctx context.Context,
	userID, projectID string,
) (*model.Application, error) {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	var application model.Application
	err = r.db.Collection(applicationCollection).FindOne(ctx, bson.M{
		"user_id":    userObjectID,
		"project_id": projectObjectID,
	}).Decode(&application)
	if err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) ListUserApplications(
	ctx context.Context,
	userID string,
) ([]*model.Application, error) {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	return r.listApplications(ctx, bson.M{"user_id": userObjectID})
}

func (r *applicationMongoRepository) ListProjectApplications(
	ctx context.Context,
	projectID string,
) ([]*model.Application, error) {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	return r.listApplications(ctx, bson.M{"project_id": projectObjectID})
}

func (r *applicationMongoRepository) listApplications(
	ctx context.Context,
	filter bson.M,
) ([]*model.Application, error) {
	cursor, err := r.db.Collection(applicationCollection).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var applications []*model.Application
	for cursor.Next(ctx) {
		var application model.Application
		if err := cursor.Decode(&application); err != nil {
			return nil, err
		}
		applications = append(applications, &application)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *applicationMongoRepository) UpdateApplication(
	ctx context.Context,
	id string,
	params UpdateApplicationParams,
) (*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Role != nil {
		updateMap["role"] = *params.Role
	}
	if params.Skills != nil {
		updateMap["skills"] = *params.Skills
	}
	if params.ReasonForJoining != nil {
		updateMap["reason_for_joining"] = *params.ReasonForJoining
	}
	if params.Availability != nil {
		updateMap["availability"] = *params.Availability
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no application fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(applicationCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to model.ApplicationStatus,
) (*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(applicationCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "status": from},
		bson.M{"$set": bson.M{
			"status":     to,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) DeleteApplication(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(applicationCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *applicationMongoRepository) DeleteProjectApplications(ctx context.Context, projectID string) error {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(applicationCollection).DeleteMany(ctx, bson.M{"project_id": projectObjectID})
	return err
}
