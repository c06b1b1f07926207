package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// ProjectUsecase defines the business logic for projects.
type ProjectUsecase interface {
	CreateProject(ctx context.Context, userID string, params CreateProjectParams) (*model.Project, error)
	GetAllProjects(ctx context.Context) ([]*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetUserProjects(ctx context.Context, userID string) ([]*model.Project, error)
	UpdateProject(ctx context.Context, id, userID string, params UpdateProjectParams) (*model.Project, error)
	ArchiveProject(ctx context.Context, id, userID string) (*model.Project, error)
	UnarchiveProject(ctx context.Context, id, userID string) (*model.Project, error)
	DeleteProject(ctx context.Context, id, userID string) error
	GetProjectMemberships(ctx context.Context, projectID string) ([]*model.Membership, error)
}

// CreateProjectParams defines the parameters for creating a project.
type CreateProjectParams struct {
	Title          string
	Description    string
	Category       string
	Tags           []string
	RequiredSkills []string
	StartDate      *time.Time
	EndDate        *time.Time
}

// UpdateProjectParams defines the optional parameters for updating a
// project.
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

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("only the project owner can perform this action")
)

type projectUsecase struct {
	projectRepo     repository.ProjectRepository
	membershipRepo  repository.MembershipRepository
	applicationRepo repository.ApplicationRepository
	taskRepo        repository.TaskRepository
	commentRepo     repository.CommentRepository
	categoryRepo    repository.CategoryRepository
	transactor      repository.Transactor
}

// NewProjectUsecase creates a new instance of ProjectUsecase.
func NewProjectUsecase(
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	applicationRepo repository.ApplicationRepository,
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	transactor repository.Transactor,
) ProjectUsecase {
	return &projectUsecase{
		projectRepo:     projectRepo,
		membershipRepo:  membershipRepo,
		applicationRepo: applicationRepo,
		taskRepo:        taskRepo,
		commentRepo:     commentRepo,
		categoryRepo:    categoryRepo,
		transactor:      transactor,
	}
}

func (u *projectUsecase) CreateProject(
	ctx context.Context,
	userID string,
	params CreateProjectParams,
) (*model.Project, error) {
	ownerID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	if err := u.categoryRepo.EnsureCategory(ctx, params.Category); err != nil {
		return nil, err
	}

	// The project and its implicit Owner membership are created together.
	var project *model.Project
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := u.projectRepo.CreateProject(ctx, &model.Project{
			OwnerID:        ownerID,
			Title:          params.Title,
			Description:    params.Description,
			Category:       params.Category,
			Tags:           params.Tags,
			RequiredSkills: params.RequiredSkills,
			StartDate:      params.StartDate,
			EndDate:        params.EndDate,
		})
		if err != nil {
			return err
		}

		if _, err := u.membershipRepo.CreateMembership(ctx, &model.Membership{
			UserID:    ownerID,
			ProjectID: created.ID,
			Role:      model.RoleOwner,
			Status:    model.MembershipStatusActive,
		}); err != nil {
			return err
		}

		project = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (u *projectUsecase) GetAllProjects(ctx context.Context) ([]*model.Project, error) {
	archived := false
	return u.projectRepo.ListProjects(ctx, repository.FilterProjectsParams{Archived: &archived})
}

func (u *projectUsecase) GetProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := u.projectRepo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	return project, nil
}

func (u *projectUsecase) GetUserProjects(ctx context.Context, userID string) ([]*model.Project, error) {
	return u.projectRepo.ListProjects(ctx, repository.FilterProjectsParams{OwnerID: &userID})
}

func (u *projectUsecase) UpdateProject(
	ctx context.Context,
	id, userID string,
	params UpdateProjectParams,
) (*model.Project, error) {
	project, err := u.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.OwnerID.Hex() != userID {
		return nil, ErrNotProjectOwner
	}

	if params.Category != nil {
		if err := u.categoryRepo.EnsureCategory(ctx, *params.Category); err != nil {
			return nil, err
		}
	}

	return u.projectRepo.UpdateProject(ctx, id, repository.UpdateProjectParams{
		Title:          params.Title,
		Description:    params.Description,
		Category:       params.Category,
		Tags:           params.Tags,
		RequiredSkills: params.RequiredSkills,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		Archived:       params.Archived,
	})
}

func (u *projectUsecase) ArchiveProject(ctx context.Context, id, userID string) (*model.Project, error) {
	archived := true
	return u.UpdateProject(ctx, id, userID, UpdateProjectParams{Archived: &archived})
}

func (u *projectUsecase) UnarchiveProject(ctx context.Context, id, userID string) (*model.Project, error) {
	archived := false
	return u.UpdateProject(ctx, id, userID, UpdateProjectParams{Archived: &archived})
}

func (u *projectUsecase) DeleteProject(ctx context.Context, id, userID string) error {
	project, err := u.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if project.OwnerID.Hex() != userID {
		return ErrNotProjectOwner
	}

	// The store has no cascade: dependent applications, memberships,
	// tasks and comments are removed here, in order, as one unit.
	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.applicationRepo.DeleteProjectApplications(ctx, id); err != nil {
			return err
		}

		if err := u.membershipRepo.DeleteProjectMemberships(ctx, id); err != nil {
			return err
		}

		tasks, err := u.taskRepo.ListProjectTasks(ctx, id)
		if err != nil {
			return err
		}
		taskIDs := make([]string, 0, len(tasks))
		for _, task := range tasks {
			taskIDs = append(taskIDs, task.ID.Hex())
		}
		if err := u.commentRepo.DeleteCommentsByTaskIDs(ctx, taskIDs); err != nil {
			return err
		}

		if err := u.taskRepo.DeleteProjectTasks(ctx, id); err != nil {
			return err
		}

		return u.projectRepo.DeleteProject(ctx, id)
	})
}

func (u *projectUsecase) GetProjectMemberships(ctx context.Context, projectID string) ([]*model.Membership, error) {
	if _, err := u.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	return u.membershipRepo.ListProjectMemberships(ctx, projectID)
}

// parseObjectID converts a hex ID from a session or URL into an ObjectID.
func parseObjectID(id string) (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(id)
}
