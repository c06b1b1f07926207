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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	ListUsersExcept(ctx context.Context, excludeID string) ([]*model.User, error)

	// SetVerificationCode stores a fresh one-time code, replacing any
	// previous one.
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkEmailVerified sets the verified flag and clears the stored code
	// and expiry in one write.
	MarkEmailVerified(ctx context.Context, id string) error

	// SetTwoFactorSecret stores the enrollment secret without enabling the
	// second factor.
	SetTwoFactorSecret(ctx context.Context, id, secret string) error

	// SetTwoFactorEnabled flips the two-factor flag. Disabling also clears
	// the stored secret.
	SetTwoFactorEnabled(ctx context.Context, id string, enabled bool) error
}

// UpdateUserParams defines the optional parameters for updating a user's
// profile. Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	AvatarURL    *string
	Bio          *string
	Location     *string
	Availability *string
	Onboarded    *bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the mongo-backed user repository and ensures
// the unique email index exists.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.FirstName != nil {
		updateMap["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		updateMap["last_name"] = *params.LastName
	}
	if params.PhoneNumber != nil {
		updateMap["phone_number"] = *params.PhoneNumber
	}
	if params.AvatarURL != nil {
		updateMap["avatar_url"] = *params.AvatarURL
	}
	if params.Bio != nil {
		updateMap["bio"] = *params.Bio
	}
	if params.Location != nil {
		updateMap["location"] = *params.Location
	}
	if params.Availability != nil {
		updateMap["availability"] = *params.Availability
	}
	if params.Onboarded != nil {
		updateMap["onboarded"] = *params.Onboarded
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ListUsersExcept(ctx context.Context, excludeID string) ([]*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(excludeID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(userCollection).Find(
		ctx,
		bson.M{"_id": bson.M{"$ne": objectID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"verification_code":            code,
			"verification_code_expires_at": expiresAt,
			"updated_at":                   time.Now(),
		}},
	)
	return err
}

func (r *userMongoRepository) MarkEmailVerified(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$set": bson.M{
				"verified":   true,
				"updated_at": time.Now(),
			},
			"$unset": bson.M{
				"verification_code":            "",
				"verification_code_expires_at": "",
			},
		},
	)
	return err
}

func (r *userMongoRepository) SetTwoFactorSecret(ctx context.Context, id, secret string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"two_factor_secret": secret,
			"updated_at":        time.Now(),
		}},
	)
	return err
}

func (r *userMongoRepository) SetTwoFactorEnabled(ctx context.Context, id string, enabled bool) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"two_factor_enabled": enabled,
			"updated_at":         time.Now(),
		},
	}
	if !enabled {
		update["$unset"] = bson.M{"two_factor_secret": ""}
	}

	_, err = r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}
