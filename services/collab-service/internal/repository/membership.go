package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
)

// MembershipRepository defines the interface for membership-related database
// operations.
type MembershipRepository interface {
	CreateMembership(ctx context.Context, membership *model.Membership) (*model.Membership, error)
	GetMembership(ctx context.Context, userID, projectID string) (*model.Membership, error)
	ListProjectMemberships(ctx context.Context, projectID string) ([]*model.Membership, error)
	DeleteProjectMemberships(ctx context.Context, projectID string) error
}

const membershipCollection = "memberships"

type membershipMongoRepository struct {
	db *mongo.Database
}

// NewMembershipMongoRepository creates the mongo-backed membership repository
// and ensures the unique (user, project) index exists.
func NewMembershipMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) MembershipRepository {
	collection := db.Collection(membershipCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "project_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create membership indexes")
	}

	return &membershipMongoRepository{db: db}
}

func (r *membershipMongoRepository) CreateMembership(
	ctx context.Context,
	membership *model.Membership,
) (*model.Membership, error) {
	now := time.Now()
	membership.CreatedAt = now
	membership.UpdatedAt = now

	result, err := r.db.Collection(membershipCollection).InsertOne(ctx, membership)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		membership.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return membership, nil
}

func (r *membershipMongoRepository) GetMembership(
	ctx context.Context,
	userID, projectID string,
) (*model.Membership, error) {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	var membership model.Membership
	err = r.db.Collection(membershipCollection).FindOne(ctx, bson.M{
		"user_id":    userObjectID,
		"project_id": projectObjectID,
	}).Decode(&membership)
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

func (r *membershipMongoRepository) ListProjectMemberships(
	ctx context.Context,
	projectID string,
) ([]*model.Membership, error) {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(membershipCollection).Find(ctx, bson.M{"project_id": projectObjectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []*model.Membership
	for cursor.Next(ctx) {
		var membership model.Membership
		if err := cursor.Decode(&membership); err != nil {
			return nil, err
		}
		memberships = append(memberships, &membership)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *membershipMongoRepository) DeleteProjectMemberships(ctx context.Context, projectID string) error {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(membershipCollection).DeleteMany(ctx, bson.M{"project_id": projectObjectID})
	return err
}
