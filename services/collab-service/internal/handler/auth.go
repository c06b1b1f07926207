package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/payload"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/usecase"
	"github.com/teamforge/teamforge-api/shared/httputil"
	"github.com/teamforge/teamforge-api/shared/validator"
)

type authHTTPHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewAuthHTTPHandler creates a new HTTP handler for the credential and
// session endpoints.
func NewAuthHTTPHandler(
	authUsecase usecase.AuthUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *authHTTPHandler {
	return &authHTTPHandler{
		authUsecase: authUsecase,
		validator:   validator,
		logger:      logger,
	}
}

// RegisterPublicRoutes mounts the endpoints that require no session.
func (h *authHTTPHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/signup", h.signUp)
	r.Post("/auth/signin", h.signIn)
	r.Post("/auth/verify-email", h.verifyEmail)
	r.Post("/auth/resend-otp", h.resendOTP)
	r.Post("/auth/email", h.checkEmail)
}

// RegisterProtectedRoutes mounts the endpoints that require a session.
func (h *authHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.currentUser)
}

func (h *authHTTPHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	result, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign up")

		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			httputil.Error(w, http.StatusConflict, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusCreated, result)
}

func (h *authHTTPHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	token, err := h.authUsecase.SignIn(r.Context(), usecase.SignInParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign in")

		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			httputil.Error(w, http.StatusForbidden, err.Error())
		case errors.Is(err, usecase.ErrEmailNotVerified):
			httputil.Error(w, http.StatusForbidden, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, token)
}

func (h *authHTTPHandler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	if err := h.authUsecase.VerifyEmail(r.Context(), req.Email, req.OTP); err != nil {
		h.logger.Error().Err(err).Msg("failed to verify email")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrEmailAlreadyVerified),
			errors.Is(err, usecase.ErrNoVerificationCode),
			errors.Is(err, usecase.ErrInvalidVerificationCode),
			errors.Is(err, usecase.ErrVerificationCodeExpired):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "email verified successfully")
}

func (h *authHTTPHandler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.ResendOTPRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	if err := h.authUsecase.ResendVerificationCode(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("failed to resend verification code")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound),
			errors.Is(err, usecase.ErrEmailAlreadyVerified):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "verification code sent")
}

func (h *authHTTPHandler) checkEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.CheckEmailRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	available, err := h.authUsecase.IsEmailAvailable(r.Context(), req.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to check email availability")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, payload.CheckEmailResponse{Available: available})
}

func (h *authHTTPHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	user, err := h.authUsecase.CurrentUser(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get current user")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}
