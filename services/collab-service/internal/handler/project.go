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

type projectHTTPHandler struct {
	projectUsecase usecase.ProjectUsecase
	validator      *validator.Validator
	logger         *zerolog.Logger
}

// NewProjectHTTPHandler creates a new HTTP handler for the project
// endpoints.
func NewProjectHTTPHandler(
	projectUsecase usecase.ProjectUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *projectHTTPHandler {
	return &projectHTTPHandler{
		projectUsecase: projectUsecase,
		validator:      validator,
		logger:         logger,
	}
}

// RegisterProtectedRoutes mounts the project endpoints.
func (h *projectHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/projects", h.create)
	r.Get("/projects", h.list)
	r.Get("/projects/me", h.listMine)
	r.Get("/projects/{id}", h.get)
	r.Patch("/projects/{id}", h.update)
	r.Post("/projects/{id}/archive", h.archive)
	r.Post("/projects/{id}/unarchive", h.unarchive)
	r.Delete("/projects/{id}", h.delete)
	r.Get("/projects/{id}/members", h.listMembers)
}

func (h *projectHTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.CreateProjectRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	project, err := h.projectUsecase.CreateProject(r.Context(), claims.UserID(), usecase.CreateProjectParams{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Tags:           req.Tags,
		RequiredSkills: req.RequiredSkills,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create project")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusCreated, project)
}

func (h *projectHTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectUsecase.GetAllProjects(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list projects")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, projects)
}

func (h *projectHTTPHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	projects, err := h.projectUsecase.GetUserProjects(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list user projects")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, projects)
}

func (h *projectHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectUsecase.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get project")
		h.respondProjectError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, project)
}

func (h *projectHTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.UpdateProjectRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	project, err := h.projectUsecase.UpdateProject(r.Context(), chi.URLParam(r, "id"), claims.UserID(),
		usecase.UpdateProjectParams{
			Title:          req.Title,
			Description:    req.Description,
			Category:       req.Category,
			Tags:           req.Tags,
			RequiredSkills: req.RequiredSkills,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			Archived:       req.Archived,
		},
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update project")
		h.respondProjectError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, project)
}

func (h *projectHTTPHandler) archive(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	project, err := h.projectUsecase.ArchiveProject(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to archive project")
		h.respondProjectError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, project)
}

func (h *projectHTTPHandler) unarchive(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	project, err := h.projectUsecase.UnarchiveProject(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to unarchive project")
		h.respondProjectError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, project)
}

func (h *projectHTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	if err := h.projectUsecase.DeleteProject(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete project")
		h.respondProjectError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "project deleted")
}

func (h *projectHTTPHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.projectUsecase.GetProjectMemberships(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list project members")
		h.respondProjectError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, memberships)
}

func (h *projectHTTPHandler) respondProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNotProjectOwner):
		httputil.Error(w, http.StatusForbidden, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
