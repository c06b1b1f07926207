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

type twoFactorHTTPHandler struct {
	twoFactorUsecase usecase.TwoFactorUsecase
	validator        *validator.Validator
	logger           *zerolog.Logger
}

// NewTwoFactorHTTPHandler creates a new HTTP handler for the two-factor
// authentication endpoints.
func NewTwoFactorHTTPHandler(
	twoFactorUsecase usecase.TwoFactorUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *twoFactorHTTPHandler {
	return &twoFactorHTTPHandler{
		twoFactorUsecase: twoFactorUsecase,
		validator:        validator,
		logger:           logger,
	}
}

// RegisterProtectedRoutes mounts the enrollment and authentication
// endpoints. They require a session but not a completed second factor.
func (h *twoFactorHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/2fa/generate", h.generate)
	r.Post("/auth/2fa/turn-on", h.turnOn)
	r.Post("/auth/2fa/authenticate", h.authenticate)
}

// RegisterTwoFactorRoutes mounts the endpoints that additionally require a
// session that already passed the second factor.
func (h *twoFactorHTTPHandler) RegisterTwoFactorRoutes(r chi.Router) {
	r.Post("/auth/2fa/turn-off", h.turnOff)
}

func (h *twoFactorHTTPHandler) generate(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	enrollment, err := h.twoFactorUsecase.GenerateSecret(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate two-factor secret")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, enrollment)
}

func (h *twoFactorHTTPHandler) turnOn(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.TwoFactorCodeRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	if err := h.twoFactorUsecase.TurnOn(r.Context(), claims.UserID(), req.Code); err != nil {
		h.logger.Error().Err(err).Msg("failed to turn on two-factor authentication")
		h.respondTwoFactorError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "two-factor authentication enabled")
}

func (h *twoFactorHTTPHandler) authenticate(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.TwoFactorCodeRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	token, err := h.twoFactorUsecase.Authenticate(r.Context(), claims.UserID(), req.Code)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to authenticate second factor")
		h.respondTwoFactorError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, token)
}

func (h *twoFactorHTTPHandler) turnOff(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	if err := h.twoFactorUsecase.TurnOff(r.Context(), claims.UserID()); err != nil {
		h.logger.Error().Err(err).Msg("failed to turn off two-factor authentication")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "two-factor authentication disabled")
}

func (h *twoFactorHTTPHandler) respondTwoFactorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrInvalidTwoFactorCode):
		httputil.Error(w, http.StatusUnauthorized, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
