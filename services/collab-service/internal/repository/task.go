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

// TaskRepository defines the interface for task-related database operations.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListProjectTasks(ctx context.Context, projectID string) ([]*model.Task, error)

	// ListUserTasks returns the tasks the user is assigned to or created.
	ListUserTasks(ctx context.Context, userID string) ([]*model.Task, error)

	UpdateTask(ctx context.Context, id string, params UpdateTaskParams) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteProjectTasks(ctx context.Context, projectID string) error
}

// UpdateTaskParams defines the optional parameters for updating a task.
// Only the fields that are not nil will be updated; ClearAssignee removes
// the assignee.
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	Priority      *model.TaskPriority
	AssigneeID    *string
	ClearAssignee bool
}

const taskCollection = "tasks"

type taskMongoRepository struct {
	db *mongo.Database
}

// NewTaskMongoRepository creates the mongo-backed task repository.
func NewTaskMongoRepository(db *mongo.Database) TaskRepository {
	return &taskMongoRepository{db: db}
}

func (r *taskMongoRepository) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	result, err := r.db.Collection(taskCollection).InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		task.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return task, nil
}

func (r *taskMongoRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := r.db.Collection(taskCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskMongoRepository) ListProjectTasks(ctx context.Context, projectID string) ([]*model.Task, error) {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	return r.listTasks(ctx, bson.M{"project_id": projectObjectID})
}

func (r *taskMongoRepository) ListUserTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	return r.listTasks(ctx, bson.M{"$or": bson.A{
		bson.M{"assignee_id": userObjectID},
		bson.M{"created_by_id": userObjectID},
	}})
}

func (r *taskMongoRepository) listTasks(ctx context.Context, filter bson.M) ([]*model.Task, error) {
	cursor, err := r.db.Collection(taskCollection).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	for cursor.Next(ctx) {
		var task model.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskMongoRepository) UpdateTask(
	ctx context.Context,
	id string,
	params UpdateTaskParams,
) (*model.Task, error) {
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
	if params.Status != nil {
		updateMap["status"] = *params.Status
	}
	if params.Priority != nil {
		updateMap["priority"] = *params.Priority
	}
	if params.AssigneeID != nil {
		assigneeObjectID, err := bson.ObjectIDFromHex(*params.AssigneeID)
		if err != nil {
			return nil, err
		}
		updateMap["assignee_id"] = assigneeObjectID
	}

	if len(updateMap) == 0 && !params.ClearAssignee {
		return nil, errors.New("no task fields to update")
	}

	updateMap["updated_at"] = time.Now()

	update := bson.M{"$set": updateMap}
	if params.ClearAssignee {
		update["$unset"] = bson.M{"assignee_id": ""}
	}

	result := r.db.Collection(taskCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var task model.Task
	if err := result.Decode(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskMongoRepository) DeleteTask(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(taskCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *taskMongoRepository) DeleteProjectTasks(ctx context.Context, projectID string) error {
	projectObjectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(taskCollection).DeleteMany(ctx, bson.M{"project_id": projectObjectID})
	return err
}
