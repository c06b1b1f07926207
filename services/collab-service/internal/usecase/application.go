package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// ApplicationUsecase governs the membership application lifecycle:
// PENDING -> ACCEPTED | REJECTED | WITHDRAWN, each terminal. Every
// transition is a conditional write on the previous status, so at most one
// of two racing transitions wins.
type ApplicationUsecase interface {
	CreateApplication(ctx context.Context, userID string, params CreateApplicationParams) (*model.Application, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	GetUserApplications(ctx context.Context, userID string) ([]*model.Application, error)
	GetProjectApplications(ctx context.Context, projectID, userID string) ([]*model.Application, error)
	UpdateApplicationDetails(ctx context.Context, id, userID string, params UpdateApplicationDetailsParams) (*model.Application, error)
	AcceptApplication(ctx context.Context, id, userID string) (*AcceptApplicationResult, error)
	RejectApplication(ctx context.Context, id, userID string) (*model.Application, error)
	WithdrawApplication(ctx context.Context, id, userID string) (*model.Application, error)
	DeleteApplication(ctx context.Context, id, userID string) error
}

// CreateApplicationParams defines the parameters for applying to a project.
type CreateApplicationParams struct {
	ProjectID        string
	Role             string
	Skills           []string
	ReasonForJoining string
	Availability     string
}

// UpdateApplicationDetailsParams defines the applicant-editable fields of an
// application. Status is deliberately absent: transitions go through the
// dedicated accept/reject/withdraw operations.
type UpdateApplicationDetailsParams struct {
	Role             *string
	Skills           *[]string
	ReasonForJoining *string
	Availability     *string
}

// AcceptApplicationResult is the outcome of a successful acceptance: the
// accepted application and the membership it produced.
type AcceptApplicationResult struct {
	Application *model.Application `json:"application"`
	Membership  *model.Membership  `json:"membership"`
}

var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrAlreadyMember         = errors.New("you are already a member of this project")
	ErrAlreadyApplied        = errors.New("you have already applied to this project")
	ErrNotApplicant          = errors.New("only the applicant can perform this action")
	ErrApplicationNotPending = errors.New("only pending applications can be transitioned")
)

type applicationUsecase struct {
	applicationRepo repository.ApplicationRepository
	projectRepo     repository.ProjectRepository
	membershipRepo  repository.MembershipRepository
	transactor      repository.Transactor
}

// NewApplicationUsecase creates a new instance of ApplicationUsecase.
func NewApplicationUsecase(
	applicationRepo repository.ApplicationRepository,
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	transactor repository.Transactor,
) ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		projectRepo:     projectRepo,
		membershipRepo:  membershipRepo,
		transactor:      transactor,
	}
}

func (u *applicationUsecase) CreateApplication(
	ctx context.Context,
	userID string,
	params CreateApplicationParams,
) (*model.Application, error) {
	project, err := u.projectRepo.GetProject(ctx, params.ProjectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if _, err := u.membershipRepo.GetMembership(ctx, userID, project.ID.Hex()); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// One application per (user, project), regardless of its status;
	// re-applying after rejection or withdrawal is not permitted.
	if _, err := u.applicationRepo.GetUserProjectApplication(ctx, userID, project.ID.Hex()); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	applicantID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	return u.applicationRepo.CreateApplication(ctx, &model.Application{
		UserID:           applicantID,
		ProjectID:        project.ID,
		Role:             params.Role,
		Skills:           params.Skills,
		ReasonForJoining: params.ReasonForJoining,
		Availability:     params.Availability,
	})
}

func (u *applicationUsecase) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	application, err := u.applicationRepo.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrApplicationNotFound
		}

		return nil, err
	}

	return application, nil
}

func (u *applicationUsecase) GetUserApplications(ctx context.Context, userID string) ([]*model.Application, error) {
	return u.applicationRepo.ListUserApplications(ctx, userID)
}

func (u *applicationUsecase) GetProjectApplications(
	ctx context.Context,
	projectID, userID string,
) ([]*model.Application, error) {
	project, err := u.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.OwnerID.Hex() != userID {
		return nil, ErrNotProjectOwner
	}

	return u.applicationRepo.ListProjectApplications(ctx, projectID)
}

func (u *applicationUsecase) UpdateApplicationDetails(
	ctx context.Context,
	id, userID string,
	params UpdateApplicationDetailsParams,
) (*model.Application, error) {
	application, err := u.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if application.UserID.Hex() != userID {
		return nil, ErrNotApplicant
	}

	return u.applicationRepo.UpdateApplication(ctx, id, repository.UpdateApplicationParams{
		Role:             params.Role,
		Skills:           params.Skills,
		ReasonForJoining: params.ReasonForJoining,
		Availability:     params.Availability,
	})
}

func (u *applicationUsecase) AcceptApplication(
	ctx context.Context,
	id, userID string,
) (*AcceptApplicationResult, error) {
	application, err := u.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := u.projectRepo.GetProject(ctx, application.ProjectID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.OwnerID.Hex() != userID {
		return nil, ErrNotProjectOwner
	}

	if application.Status != model.ApplicationPending {
		return nil, ErrApplicationNotPending
	}

	// The status write and the membership creation must both land or
	// neither: no membership without an accepted application, and no
	// accepted application without its membership.
	var result AcceptApplicationResult
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		accepted, err := u.applicationRepo.TransitionStatus(
			ctx, id, model.ApplicationPending, model.ApplicationAccepted,
		)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				// Lost the race against a concurrent transition.
				return ErrApplicationNotPending
			}

			return err
		}

		membership, err := u.membershipRepo.CreateMembership(ctx, &model.Membership{
			UserID:    application.UserID,
			ProjectID: application.ProjectID,
			Role:      application.Role,
			Status:    model.MembershipStatusActive,
		})
		if err != nil {
			return err
		}

		result.Application = accepted
		result.Membership = membership
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (u *applicationUsecase) RejectApplication(ctx context.Context, id, userID string) (*model.Application, error) {
	application, err := u.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := u.projectRepo.GetProject(ctx, application.ProjectID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.OwnerID.Hex() != userID {
		return nil, ErrNotProjectOwner
	}

	return u.transition(ctx, id, model.ApplicationRejected)
}

func (u *applicationUsecase) WithdrawApplication(ctx context.Context, id, userID string) (*model.Application, error) {
	application, err := u.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if application.UserID.Hex() != userID {
		return nil, ErrNotApplicant
	}

	return u.transition(ctx, id, model.ApplicationWithdrawn)
}

func (u *applicationUsecase) DeleteApplication(ctx context.Context, id, userID string) error {
	application, err := u.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	if application.UserID.Hex() != userID {
		return ErrNotApplicant
	}

	// Unlike withdraw, delete removes the record in any status.
	if err := u.applicationRepo.DeleteApplication(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrApplicationNotFound
		}

		return err
	}

	return nil
}

func (u *applicationUsecase) transition(
	ctx context.Context,
	id string,
	to model.ApplicationStatus,
) (*model.Application, error) {
	application, err := u.applicationRepo.TransitionStatus(ctx, id, model.ApplicationPending, to)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrApplicationNotPending
		}

		return nil, err
	}

	return application, nil
}
