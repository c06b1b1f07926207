package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// UserUsecase defines the business logic for user profiles.
type UserUsecase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListOtherUsers(ctx context.Context, callerID string) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.User, error)
	SetOnboarded(ctx context.Context, id string) (*model.User, error)
}

// UpdateProfileParams defines the optional parameters for updating a
// user's profile.
type UpdateProfileParams struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	AvatarURL    *string
	Bio          *string
	Location     *string
	Availability *string
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) ListOtherUsers(ctx context.Context, callerID string) ([]*model.User, error) {
	return u.userRepo.ListUsersExcept(ctx, callerID)
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	user, err := u.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PhoneNumber:  params.PhoneNumber,
		AvatarURL:    params.AvatarURL,
		Bio:          params.Bio,
		Location:     params.Location,
		Availability: params.Availability,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) SetOnboarded(ctx context.Context, id string) (*model.User, error) {
	onboarded := true
	user, err := u.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{Onboarded: &onboarded})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}
