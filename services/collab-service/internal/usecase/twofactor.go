package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/config"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
	"github.com/teamforge/teamforge-api/shared/auth"
)

const qrCodeSize = 256

// TwoFactorUsecase defines the business logic of time-based second-factor
// authentication.
//
// Per-account state machine: disabled -> secret pending (GenerateSecret) ->
// enabled (TurnOn with a valid code) -> disabled (TurnOff, which requires a
// two-factor-authenticated session, enforced at the transport layer).
type TwoFactorUsecase interface {
	GenerateSecret(ctx context.Context, userID string) (*TwoFactorEnrollment, error)
	TurnOn(ctx context.Context, userID, code string) error
	Authenticate(ctx context.Context, userID, code string) (*SessionToken, error)
	TurnOff(ctx context.Context, userID string) error
}

// TwoFactorEnrollment carries the provisioning URI and a rendered QR code
// for authenticator apps.
type TwoFactorEnrollment struct {
	OTPAuthURL string `json:"authUrl"`
	QRCode     string `json:"qrCode"`
}

var ErrInvalidTwoFactorCode = errors.New("wrong authentication code")

type twoFactorUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
}

// NewTwoFactorUsecase creates a new instance of TwoFactorUsecase.
func NewTwoFactorUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
) TwoFactorUsecase {
	return &twoFactorUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
	}
}

func (u *twoFactorUsecase) GenerateSecret(ctx context.Context, userID string) (*TwoFactorEnrollment, error) {
	user, err := u.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      u.cfg.TwoFactorIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	// The secret is stored immediately but the flag only flips after the
	// user proves possession with a valid code.
	if err := u.userRepo.SetTwoFactorSecret(ctx, user.ID.Hex(), key.Secret()); err != nil {
		return nil, err
	}

	qrCode, err := renderQRCodeDataURL(key)
	if err != nil {
		return nil, err
	}

	return &TwoFactorEnrollment{
		OTPAuthURL: key.URL(),
		QRCode:     qrCode,
	}, nil
}

func (u *twoFactorUsecase) TurnOn(ctx context.Context, userID, code string) error {
	user, err := u.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !isTwoFactorCodeValid(code, user.TwoFactorSecret) {
		return ErrInvalidTwoFactorCode
	}

	return u.userRepo.SetTwoFactorEnabled(ctx, user.ID.Hex(), true)
}

func (u *twoFactorUsecase) Authenticate(ctx context.Context, userID, code string) (*SessionToken, error) {
	user, err := u.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isTwoFactorCodeValid(code, user.TwoFactorSecret) {
		return nil, ErrInvalidTwoFactorCode
	}

	token, err := u.jwtAuth.GenerateSessionToken(
		user.ID.Hex(),
		user.Email,
		user.TwoFactorEnabled,
		true,
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

func (u *twoFactorUsecase) TurnOff(ctx context.Context, userID string) error {
	user, err := u.getUser(ctx, userID)
	if err != nil {
		return err
	}

	// Disabling also clears the enrolled secret.
	return u.userRepo.SetTwoFactorEnabled(ctx, user.ID.Hex(), false)
}

func (u *twoFactorUsecase) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// renderQRCodeDataURL renders the provisioning key as a PNG data URL
// suitable for an <img> tag.
func renderQRCodeDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// isTwoFactorCodeValid checks a 6-digit code against the stored secret using
// the standard 30-second time step with one step of skew either way.
func isTwoFactorCodeValid(code, secret string) bool {
	if secret == "" {
		return false
	}

	return totp.Validate(code, secret)
}
