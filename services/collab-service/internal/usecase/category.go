package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// CategoryUsecase defines the business logic for project categories and
// per-user category preferences.
type CategoryUsecase interface {
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	GetUserPreferences(ctx context.Context, userID string) ([]*model.CategoryPreference, error)
	SetUserPreferences(ctx context.Context, userID string, categoryIDs []string) ([]*model.CategoryPreference, error)
}

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("a category with this name already exists")
)

type categoryUsecase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUsecase creates a new instance of CategoryUsecase.
func NewCategoryUsecase(categoryRepo repository.CategoryRepository) CategoryUsecase {
	return &categoryUsecase{categoryRepo: categoryRepo}
}

func (u *categoryUsecase) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	category, err := u.categoryRepo.CreateCategory(ctx, &model.Category{Name: name})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryAlreadyExists
		}

		return nil, err
	}

	return category, nil
}

func (u *categoryUsecase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	category, err := u.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}

		return nil, err
	}

	return category, nil
}

func (u *categoryUsecase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return u.categoryRepo.ListCategories(ctx)
}

func (u *categoryUsecase) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	category, err := u.categoryRepo.UpdateCategory(ctx, id, name)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryAlreadyExists
		}

		return nil, err
	}

	return category, nil
}

func (u *categoryUsecase) DeleteCategory(ctx context.Context, id string) error {
	if err := u.categoryRepo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCategoryNotFound
		}

		return err
	}

	return nil
}

func (u *categoryUsecase) GetUserPreferences(ctx context.Context, userID string) ([]*model.CategoryPreference, error) {
	return u.categoryRepo.ListUserPreferences(ctx, userID)
}

func (u *categoryUsecase) SetUserPreferences(
	ctx context.Context,
	userID string,
	categoryIDs []string,
) ([]*model.CategoryPreference, error) {
	// Each referenced category must exist before the set is replaced.
	for _, id := range categoryIDs {
		if _, err := u.GetCategory(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := u.categoryRepo.ReplaceUserPreferences(ctx, userID, categoryIDs); err != nil {
		return nil, err
	}

	return u.categoryRepo.ListUserPreferences(ctx, userID)
}
