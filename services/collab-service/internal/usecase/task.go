package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// TaskUsecase defines the business logic for tasks and their comments.
type TaskUsecase interface {
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*model.Task, error)
	GetTask(ctx context.Context, id, userID string) (*model.Task, error)
	GetProjectTasks(ctx context.Context, projectID, userID string) ([]*model.Task, error)
	GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error)
	UpdateTask(ctx context.Context, id, userID string, params UpdateTaskParams) (*model.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error

	CreateComment(ctx context.Context, taskID, userID, content string) (*model.TaskComment, error)
	GetTaskComments(ctx context.Context, taskID, userID string) ([]*model.TaskComment, error)
	UpdateComment(ctx context.Context, id, userID, content string) (*model.TaskComment, error)
	DeleteComment(ctx context.Context, id, userID string) error
}

// CreateTaskParams defines the parameters for creating a task.
type CreateTaskParams struct {
	ProjectID   string
	Title       string
	Description string
	Priority    model.TaskPriority
	AssigneeID  *string
}

// UpdateTaskParams defines the optional parameters for updating a task.
// A non-nil AssigneeID set to the empty string removes the assignee.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	AssigneeID  *string
}

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrNotProjectMember  = errors.New("user is not a member of this project")
	ErrAssigneeNotMember = errors.New("assignee is not a member of this project")
	ErrNotCommentAuthor  = errors.New("only the comment author can perform this action")
	ErrCannotDeleteTask  = errors.New("only the project owner or the task creator can delete this task")
)

type taskUsecase struct {
	taskRepo       repository.TaskRepository
	commentRepo    repository.CommentRepository
	projectRepo    repository.ProjectRepository
	membershipRepo repository.MembershipRepository
	transactor     repository.Transactor
}

// NewTaskUsecase creates a new instance of TaskUsecase.
func NewTaskUsecase(
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	transactor repository.Transactor,
) TaskUsecase {
	return &taskUsecase{
		taskRepo:       taskRepo,
		commentRepo:    commentRepo,
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		transactor:     transactor,
	}
}

func (u *taskUsecase) CreateTask(
	ctx context.Context,
	userID string,
	params CreateTaskParams,
) (*model.Task, error) {
	project, err := u.getProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := u.requireMember(ctx, userID, params.ProjectID); err != nil {
		return nil, err
	}

	creatorID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   project.ID,
		Title:       params.Title,
		Description: params.Description,
		Status:      model.TaskTodo,
		Priority:    params.Priority,
		CreatedByID: creatorID,
	}

	if params.AssigneeID != nil {
		if err := u.requireAssigneeMember(ctx, *params.AssigneeID, params.ProjectID); err != nil {
			return nil, err
		}

		assigneeID, err := parseObjectID(*params.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = &assigneeID
	}

	return u.taskRepo.CreateTask(ctx, task)
}

func (u *taskUsecase) GetTask(ctx context.Context, id, userID string) (*model.Task, error) {
	task, err := u.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.requireMember(ctx, userID, task.ProjectID.Hex()); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) GetProjectTasks(ctx context.Context, projectID, userID string) ([]*model.Task, error) {
	if _, err := u.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	if err := u.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}

	return u.taskRepo.ListProjectTasks(ctx, projectID)
}

func (u *taskUsecase) GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	return u.taskRepo.ListUserTasks(ctx, userID)
}

func (u *taskUsecase) UpdateTask(
	ctx context.Context,
	id, userID string,
	params UpdateTaskParams,
) (*model.Task, error) {
	task, err := u.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	projectID := task.ProjectID.Hex()
	if err := u.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}

	repoParams := repository.UpdateTaskParams{
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
	}

	if params.AssigneeID != nil {
		if *params.AssigneeID == "" {
			repoParams.ClearAssignee = true
		} else {
			if err := u.requireAssigneeMember(ctx, *params.AssigneeID, projectID); err != nil {
				return nil, err
			}
			repoParams.AssigneeID = params.AssigneeID
		}
	}

	return u.taskRepo.UpdateTask(ctx, id, repoParams)
}

func (u *taskUsecase) DeleteTask(ctx context.Context, id, userID string) error {
	task, err := u.getTask(ctx, id)
	if err != nil {
		return err
	}

	project, err := u.getProject(ctx, task.ProjectID.Hex())
	if err != nil {
		return err
	}

	if project.OwnerID.Hex() != userID && task.CreatedByID.Hex() != userID {
		return ErrCannotDeleteTask
	}

	// Comments belong to the task and have no life of their own.
	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.commentRepo.DeleteTaskComments(ctx, id); err != nil {
			return err
		}

		return u.taskRepo.DeleteTask(ctx, id)
	})
}

func (u *taskUsecase) CreateComment(
	ctx context.Context,
	taskID, userID, content string,
) (*model.TaskComment, error) {
	task, err := u.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := u.requireMember(ctx, userID, task.ProjectID.Hex()); err != nil {
		return nil, err
	}

	authorID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	return u.commentRepo.CreateComment(ctx, &model.TaskComment{
		TaskID:   task.ID,
		AuthorID: authorID,
		Content:  content,
	})
}

func (u *taskUsecase) GetTaskComments(ctx context.Context, taskID, userID string) ([]*model.TaskComment, error) {
	task, err := u.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := u.requireMember(ctx, userID, task.ProjectID.Hex()); err != nil {
		return nil, err
	}

	return u.commentRepo.ListTaskComments(ctx, taskID)
}

func (u *taskUsecase) UpdateComment(
	ctx context.Context,
	id, userID, content string,
) (*model.TaskComment, error) {
	comment, err := u.getComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID.Hex() != userID {
		return nil, ErrNotCommentAuthor
	}

	return u.commentRepo.UpdateComment(ctx, id, content)
}

func (u *taskUsecase) DeleteComment(ctx context.Context, id, userID string) error {
	comment, err := u.getComment(ctx, id)
	if err != nil {
		return err
	}

	if comment.AuthorID.Hex() == userID {
		return u.commentRepo.DeleteComment(ctx, id)
	}

	// The project owner moderates comments on any task in the project.
	task, err := u.getTask(ctx, comment.TaskID.Hex())
	if err != nil {
		return err
	}

	project, err := u.getProject(ctx, task.ProjectID.Hex())
	if err != nil {
		return err
	}

	if project.OwnerID.Hex() != userID {
		return ErrNotCommentAuthor
	}

	return u.commentRepo.DeleteComment(ctx, id)
}

func (u *taskUsecase) getProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := u.projectRepo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	return project, nil
}

func (u *taskUsecase) getTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := u.taskRepo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}

		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) getComment(ctx context.Context, id string) (*model.TaskComment, error) {
	comment, err := u.commentRepo.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}

		return nil, err
	}

	return comment, nil
}

func (u *taskUsecase) requireMember(ctx context.Context, userID, projectID string) error {
	if _, err := u.membershipRepo.GetMembership(ctx, userID, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotProjectMember
		}

		return err
	}

	return nil
}

func (u *taskUsecase) requireAssigneeMember(ctx context.Context, assigneeID, projectID string) error {
	if _, err := u.membershipRepo.GetMembership(ctx, assigneeID, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAssigneeNotMember
		}

		return err
	}

	return nil
}
