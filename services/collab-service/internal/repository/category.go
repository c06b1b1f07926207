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

// CategoryRepository defines the interface for category and
// category-preference database operations.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)

	// EnsureCategory creates the named category if it does not exist yet.
	EnsureCategory(ctx context.Context, name string) error

	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListUserPreferences(ctx context.Context, userID string) ([]*model.CategoryPreference, error)
	ReplaceUserPreferences(ctx context.Context, userID string, categoryIDs []string) error
}

const (
	categoryCollection   = "categories"
	preferenceCollection = "category_preferences"
)

type categoryMongoRepository struct {
	db *mongo.Database
}

// NewCategoryMongoRepository creates the mongo-backed category repository and
// ensures the unique name index exists.
func NewCategoryMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) CategoryRepository {
	collection := db.Collection(categoryCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create category indexes")
	}

	return &categoryMongoRepository{db: db}
}

func (r *categoryMongoRepository) CreateCategory(
	ctx context.Context,
	category *model.Category,
) (*model.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.db.Collection(categoryCollection).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		category.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return category, nil
}

func (r *categoryMongoRepository) EnsureCategory(ctx context.Context, name string) error {
	now := time.Now()

	_, err := r.db.Collection(categoryCollection).UpdateOne(
		ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{
			"name":       name,
			"created_at": now,
			"updated_at": now,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *categoryMongoRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var category model.Category
	if err := r.db.Collection(categoryCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	cursor, err := r.db.Collection(categoryCollection).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*model.Category
	for cursor.Next(ctx) {
		var category model.Category
		if err := cursor.Decode(&category); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryMongoRepository) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(categoryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"name":       name,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) DeleteCategory(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(categoryCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *categoryMongoRepository) ListUserPreferences(
	ctx context.Context,
	userID string,
) ([]*model.CategoryPreference, error) {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(preferenceCollection).Find(ctx, bson.M{"user_id": userObjectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var preferences []*model.CategoryPreference
	for cursor.Next(ctx) {
		var preference model.CategoryPreference
		if err := cursor.Decode(&preference); err != nil {
			return nil, err
		}
		preferences = append(preferences, &preference)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return preferences, nil
}

func (r *categoryMongoRepository) ReplaceUserPreferences(
	ctx context.Context,
	userID string,
	categoryIDs []string,
) error {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	if _, err := r.db.Collection(preferenceCollection).DeleteMany(ctx, bson.M{"user_id": userObjectID}); err != nil {
		return err
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	now := time.Now()
	documents := make([]any, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		categoryObjectID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		documents = append(documents, model.CategoryPreference{
			UserID:     userObjectID,
			CategoryID: categoryObjectID,
			CreatedAt:  now,
		})
	}

	_, err = r.db.Collection(preferenceCollection).InsertMany(ctx, documents)
	return err
}
