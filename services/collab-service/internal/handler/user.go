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

type userHTTPHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewUserHTTPHandler creates a new HTTP handler for the user profile
// endpoints.
func NewUserHTTPHandler(
	userUsecase usecase.UserUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *userHTTPHandler {
	return &userHTTPHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

// RegisterProtectedRoutes mounts the user profile endpoints.
func (h *userHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/users", h.listOthers)
	r.Get("/users/{id}", h.get)
	r.Patch("/users/me", h.updateProfile)
	r.Post("/users/me/onboard", h.onboard)
}

func (h *userHTTPHandler) listOthers(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	users, err := h.userUsecase.ListOtherUsers(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, users)
}

func (h *userHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get user")
		h.respondUserError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

func (h *userHTTPHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.UpdateProfileRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), claims.UserID(), usecase.UpdateProfileParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
		Location:     req.Location,
		Availability: req.Availability,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		h.respondUserError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

func (h *userHTTPHandler) onboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	user, err := h.userUsecase.SetOnboarded(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to mark user onboarded")
		h.respondUserError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

func (h *userHTTPHandler) respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
