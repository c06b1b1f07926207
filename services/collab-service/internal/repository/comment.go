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

// CommentRepository defines the interface for task-comment database
// operations.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.TaskComment) (*model.TaskComment, error)
	GetComment(ctx context.Context, id string) (*model.TaskComment, error)
	ListTaskComments(ctx context.Context, taskID string) ([]*model.TaskComment, error)
	UpdateComment(ctx context.Context, id, content string) (*model.TaskComment, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteTaskComments(ctx context.Context, taskID string) error
	DeleteCommentsByTaskIDs(ctx context.Context, taskIDs []string) error
}

const commentCollection = "task_comments"

type commentMongoRepository struct {
	db *mongo.Database
}

// NewCommentMongoRepository creates the mongo-backed comment repository.
func NewCommentMongoRepository(db *mongo.Database) CommentRepository {
	return &commentMongoRepository{db: db}
}

func (r *commentMongoRepository) CreateComment(
	ctx context.Context,
	comment *model.TaskComment,
) (*model.TaskComment, error) {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	result, err := r.db.Collection(commentCollection).InsertOne(ctx, comment)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		comment.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return comment, nil
}

func (r *commentMongoRepository) GetComment(ctx context.Context, id string) (*model.TaskComment, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var comment model.TaskComment
	if err := r.db.Collection(commentCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentMongoRepository) ListTaskComments(ctx context.Context, taskID string) ([]*model.TaskComment, error) {
	taskObjectID, err := bson.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(commentCollection).Find(
		ctx,
		bson.M{"task_id": taskObjectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*model.TaskComment
	for cursor.Next(ctx) {
		var comment model.TaskComment
		if err := cursor.Decode(&comment); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentMongoRepository) UpdateComment(ctx context.Context, id, content string) (*model.TaskComment, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(commentCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"content":    content,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var comment model.TaskComment
	if err := result.Decode(&comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentMongoRepository) DeleteComment(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(commentCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *commentMongoRepository) DeleteTaskComments(ctx context.Context, taskID string) error {
	taskObjectID, err := bson.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(commentCollection).DeleteMany(ctx, bson.M{"task_id": taskObjectID})
	return err
}

func (r *commentMongoRepository) DeleteCommentsByTaskIDs(ctx context.Context, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}

	objectIDs := make([]bson.ObjectID, 0, len(taskIDs))
	for _, id := range taskIDs {
		objectID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		objectIDs = append(objectIDs, objectID)
	}

	_, err := r.db.Collection(commentCollection).DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": objectIDs}})
	return err
}
