package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// TokenIssuer mints chat access tokens for a user of the external chat
// provider.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

// ChatUsecase defines the business logic for chat access.
type ChatUsecase interface {
	GetChatToken(ctx context.Context, userID string) (string, error)
}

type chatUsecase struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// NewChatUsecase creates a new instance of ChatUsecase.
func NewChatUsecase(userRepo repository.UserRepository, issuer TokenIssuer) ChatUsecase {
	return &chatUsecase{userRepo: userRepo, issuer: issuer}
}

func (u *chatUsecase) GetChatToken(ctx context.Context, userID string) (string, error) {
	// Tokens are only minted for accounts that still exist.
	if _, err := u.userRepo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	return u.issuer.IssueToken(userID)
}
