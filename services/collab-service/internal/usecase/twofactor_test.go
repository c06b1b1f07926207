package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/teamforge/teamforge-api/shared/auth"
)

type twoFactorFixture struct {
	usecase  TwoFactorUsecase
	userRepo *fakeUserRepo
	jwtAuth  auth.JWTAuthenticator
	userID   string
}

func newTwoFactorFixture(t *testing.T) *twoFactorFixture {
	t.Helper()

	cfg := testConfig()
	userRepo := newFakeUserRepo()
	jwtAuth := auth.NewJWTAuthenticator(cfg.ServiceName, cfg.Token.Issuer)

	authUC := NewAuthUsecase(userRepo, jwtAuth, &fakeMailer{}, cfg)
	if _, err := authUC.SignUp(context.Background(), SignUpParams{
		Email:       "ada@example.com",
		Password:    "correct horse battery",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+3612345678",
	}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	user, err := userRepo.GetUserByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}

	return &twoFactorFixture{
		usecase:  NewTwoFactorUsecase(userRepo, jwtAuth, cfg),
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		userID:   user.ID.Hex(),
	}
}

func (f *twoFactorFixture) currentCode(t *testing.T) string {
	t.Helper()

	user, _ := f.userRepo.GetUser(context.Background(), f.userID)
	code, err := totp.GenerateCode(user.TwoFactorSecret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	return code
}

func TestGenerateSecretStoresSecretWithoutEnabling(t *testing.T) {
	f := newTwoFactorFixture(t)

	enrollment, err := f.usecase.GenerateSecret(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	if !strings.HasPrefix(enrollment.OTPAuthURL, "otpauth://totp/") {
		t.Errorf("OTPAuthURL = %q, want an otpauth URI", enrollment.OTPAuthURL)
	}
	if !strings.HasPrefix(enrollment.QRCode, "data:image/png;base64,") {
		t.Errorf("QRCode = %q, want a PNG data URL", enrollment.QRCode[:min(len(enrollment.QRCode), 40)])
	}

	user, _ := f.userRepo.GetUser(context.Background(), f.userID)
	if user.TwoFactorSecret == "" {
		t.Error("secret should be stored at enrollment")
	}
	if user.TwoFactorEnabled {
		t.Error("enrollment alone must not enable the second factor")
	}
}

func TestTurnOnRequiresValidCode(t *testing.T) {
	f := newTwoFactorFixture(t)
	if _, err := f.usecase.GenerateSecret(context.Background(), f.userID); err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	if err := f.usecase.TurnOn(context.Background(), f.userID, "000000"); !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Fatalf("TurnOn() with bad code error = %v, want ErrInvalidTwoFactorCode", err)
	}

	user, _ := f.userRepo.GetUser(context.Background(), f.userID)
	if user.TwoFactorEnabled {
		t.Fatal("a rejected code must leave the flag off")
	}

	if err := f.usecase.TurnOn(context.Background(), f.userID, f.currentCode(t)); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}

	user, _ = f.userRepo.GetUser(context.Background(), f.userID)
	if !user.TwoFactorEnabled {
		t.Error("valid code should enable the second factor")
	}
}

func TestTurnOnWithoutEnrollment(t *testing.T) {
	f := newTwoFactorFixture(t)

	// No secret stored yet, so no code can possibly validate.
	if err := f.usecase.TurnOn(context.Background(), f.userID, "123456"); !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Errorf("TurnOn() error = %v, want ErrInvalidTwoFactorCode", err)
	}
}

func TestAuthenticateIssuesUpgradedToken(t *testing.T) {
	f := newTwoFactorFixture(t)
	if _, err := f.usecase.GenerateSecret(context.Background(), f.userID); err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	if err := f.usecase.TurnOn(context.Background(), f.userID, f.currentCode(t)); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}

	if _, err := f.usecase.Authenticate(context.Background(), f.userID, "000000"); !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Fatalf("Authenticate() with bad code error = %v, want ErrInvalidTwoFactorCode", err)
	}

	token, err := f.usecase.Authenticate(context.Background(), f.userID, f.currentCode(t))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	claims, err := f.jwtAuth.ValidateSessionToken(token.AccessToken, testConfig().Token.Secret)
	if err != nil {
		t.Fatalf("ValidateSessionToken() error = %v", err)
	}
	if !claims.TwoFactorAuthenticated {
		t.Error("token from Authenticate must mark the second factor complete")
	}
}

func TestTurnOffClearsSecret(t *testing.T) {
	f := newTwoFactorFixture(t)
	if _, err := f.usecase.GenerateSecret(context.Background(), f.userID); err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	if err := f.usecase.TurnOn(context.Background(), f.userID, f.currentCode(t)); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}

	if err := f.usecase.TurnOff(context.Background(), f.userID); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}

	user, _ := f.userRepo.GetUser(context.Background(), f.userID)
	if user.TwoFactorEnabled {
		t.Error("second factor should be disabled")
	}
	if user.TwoFactorSecret != "" {
		t.Error("secret should be cleared on disable; re-enabling requires fresh enrollment")
	}
}

func TestTwoFactorUnknownUser(t *testing.T) {
	f := newTwoFactorFixture(t)

	if _, err := f.usecase.GenerateSecret(context.Background(), "ffffffffffffffffffffffff"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GenerateSecret() error = %v, want ErrUserNotFound", err)
	}
}
