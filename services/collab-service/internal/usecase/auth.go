package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/config"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
	"github.com/teamforge/teamforge-api/shared/auth"
	"github.com/teamforge/teamforge-api/shared/security"
)

// Mailer sends outbound email. Satisfied by shared/mailer.Mailer.
type Mailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// AuthUsecase defines the business logic of the credential and session
// authority.
type AuthUsecase interface {
	SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error)
	SignIn(ctx context.Context, params SignInParams) (*SessionToken, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerificationCode(ctx context.Context, email string) error
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
}

// SignUpParams defines the parameters for user registration.
type SignUpParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// SignUpResult acknowledges a registration. It never carries the password
// hash or the verification code.
type SignUpResult struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// SignInParams defines the parameters for user login.
type SignInParams struct {
	Email    string
	Password string
}

// SessionToken is a signed session token plus the account's two-factor flag,
// so clients know whether a second step is still required.
type SessionToken struct {
	AccessToken      string `json:"access_token"`
	TwoFactorEnabled bool   `json:"isTwoFactorAuthenticationEnabled"`
}

var (
	ErrEmailAlreadyExists      = errors.New("email is already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrEmailNotVerified        = errors.New("email is not verified yet")
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailAlreadyVerified    = errors.New("email is already verified")
	ErrNoVerificationCode      = errors.New("no verification code on file")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationCodeExpired = errors.New("verification code has expired")
)

const verificationCodeLength = 4

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	mailer   Mailer
	cfg      *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer Mailer,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:                     params.Email,
		PasswordHash:              passwordHash,
		FirstName:                 params.FirstName,
		LastName:                  params.LastName,
		PhoneNumber:               params.PhoneNumber,
		Verified:                  false,
		VerificationCode:          code,
		VerificationCodeExpiresAt: security.CodeExpiry(u.cfg.OTPExpiry()),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}

		return nil, err
	}

	if err := u.sendVerificationEmail(user.Email, code); err != nil {
		return nil, err
	}

	return &SignUpResult{
		Message: "Signup successful. Please check your email to verify your account.",
		Email:   user.Email,
	}, nil
}

func (u *authUsecase) SignIn(ctx context.Context, params SignInParams) (*SessionToken, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Same error as a wrong password so callers cannot probe
			// which of the two failed.
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		if err := u.ResendVerificationCode(ctx, user.Email); err != nil {
			return nil, err
		}

		return nil, ErrEmailNotVerified
	}

	// The second factor is never pre-authenticated at password login,
	// even when the account has it enabled.
	token, err := u.jwtAuth.GenerateSessionToken(
		user.ID.Hex(),
		user.Email,
		user.TwoFactorEnabled,
		false,
		u.cfg.Token.Secret,
		u.cfg.Token.SessionExpiresIn,
	)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		AccessToken:      token,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if user.Verified {
		return ErrEmailAlreadyVerified
	}

	if user.VerificationCode == "" {
		return ErrNoVerificationCode
	}

	if user.VerificationCode != code {
		return ErrInvalidVerificationCode
	}

	if security.CodeExpired(user.VerificationCodeExpiresAt) {
		return ErrVerificationCodeExpired
	}

	return u.userRepo.MarkEmailVerified(ctx, user.ID.Hex())
}

func (u *authUsecase) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if user.Verified {
		return ErrEmailAlreadyVerified
	}

	code, err := security.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return err
	}

	// The new code replaces the old one; there is no grace window.
	expiresAt := security.CodeExpiry(u.cfg.OTPExpiry())
	if err := u.userRepo.SetVerificationCode(ctx, user.ID.Hex(), code, expiresAt); err != nil {
		return err
	}

	return u.sendVerificationEmail(user.Email, code)
}

func (u *authUsecase) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *authUsecase) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, nil
		}

		return false, err
	}

	return false, nil
}

func (u *authUsecase) sendVerificationEmail(email, code string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>Thanks for signing up. Use the code below to verify your email address:</p>

		<p><strong style="font-size: 24px; letter-spacing: 4px;">%s</strong></p>

		<p>The code expires in %d minutes.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>TeamForge Team</p>
	`, code, u.cfg.OTPExpiryMinutes)

	return u.mailer.SendHTML([]string{email}, "Verify your email address", htmlBody)
}
