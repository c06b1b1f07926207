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

type applicationHTTPHandler struct {
	applicationUsecase usecase.ApplicationUsecase
	validator          *validator.Validator
	logger             *zerolog.Logger
}

// NewApplicationHTTPHandler creates a new HTTP handler for the membership
// application endpoints.
func NewApplicationHTTPHandler(
	applicationUsecase usecase.ApplicationUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *applicationHTTPHandler {
	return &applicationHTTPHandler{
		applicationUsecase: applicationUsecase,
		validator:          validator,
		logger:             logger,
	}
}

// RegisterProtectedRoutes mounts the application endpoints. Status
// transitions have their own routes; the PATCH route edits details only.
func (h *applicationHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/applications", h.create)
	r.Get("/applications/my-applications", h.listMine)
	r.Get("/applications/project/{projectId}", h.listProject)
	r.Get("/applications/{id}", h.get)
	r.Patch("/applications/{id}", h.updateDetails)
	r.Patch("/applications/{id}/accept", h.accept)
	r.Patch("/applications/{id}/reject", h.reject)
	r.Patch("/applications/{id}/withdraw", h.withdraw)
	r.Delete("/applications/{id}", h.delete)
}

func (h *applicationHTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.CreateApplicationRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	application, err := h.applicationUsecase.CreateApplication(r.Context(), claims.UserID(), usecase.CreateApplicationParams{
		ProjectID:        req.ProjectID,
		Role:             req.Role,
		Skills:           req.Skills,
		ReasonForJoining: req.ReasonForJoining,
		Availability:     req.Availability,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, application)
}

func (h *applicationHTTPHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	applications, err := h.applicationUsecase.GetUserApplications(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list user applications")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, applications)
}

func (h *applicationHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionClaims(w, r); !ok {
		return
	}

	application, err := h.applicationUsecase.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, application)
}

func (h *applicationHTTPHandler) listProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	applications, err := h.applicationUsecase.GetProjectApplications(
		r.Context(), chi.URLParam(r, "projectId"), claims.UserID(),
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list project applications")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, applications)
}

func (h *applicationHTTPHandler) updateDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.UpdateApplicationRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	application, err := h.applicationUsecase.UpdateApplicationDetails(
		r.Context(), chi.URLParam(r, "id"), claims.UserID(),
		usecase.UpdateApplicationDetailsParams{
			Role:             req.Role,
			Skills:           req.Skills,
			ReasonForJoining: req.ReasonForJoining,
			Availability:     req.Availability,
		},
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, application)
}

func (h *applicationHTTPHandler) accept(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	result, err := h.applicationUsecase.AcceptApplication(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to accept application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

func (h *applicationHTTPHandler) reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	application, err := h.applicationUsecase.RejectApplication(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to reject application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, application)
}

func (h *applicationHTTPHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	application, err := h.applicationUsecase.WithdrawApplication(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to withdraw application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, application)
}

func (h *applicationHTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	if err := h.applicationUsecase.DeleteApplication(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete application")
		h.respondApplicationError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "application deleted")
}

func (h *applicationHTTPHandler) respondApplicationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrApplicationNotFound),
		errors.Is(err, usecase.ErrProjectNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNotProjectOwner),
		errors.Is(err, usecase.ErrNotApplicant):
		httputil.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrAlreadyMember),
		errors.Is(err, usecase.ErrAlreadyApplied),
		errors.Is(err, usecase.ErrApplicationNotPending):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
