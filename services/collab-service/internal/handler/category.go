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

type categoryHTTPHandler struct {
	categoryUsecase usecase.CategoryUsecase
	validator       *validator.Validator
	logger          *zerolog.Logger
}

// NewCategoryHTTPHandler creates a new HTTP handler for the category and
// preference endpoints.
func NewCategoryHTTPHandler(
	categoryUsecase usecase.CategoryUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *categoryHTTPHandler {
	return &categoryHTTPHandler{
		categoryUsecase: categoryUsecase,
		validator:       validator,
		logger:          logger,
	}
}

// RegisterProtectedRoutes mounts the category endpoints.
func (h *categoryHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/categories", h.create)
	r.Get("/categories", h.list)
	r.Get("/categories/{id}", h.get)
	r.Patch("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.delete)

	r.Get("/categories/preferences/me", h.getPreferences)
	r.Put("/categories/preferences/me", h.setPreferences)
}

func (h *categoryHTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateCategoryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	category, err := h.categoryUsecase.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create category")
		h.respondCategoryError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, category)
}

func (h *categoryHTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUsecase.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list categories")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, categories)
}

func (h *categoryHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryUsecase.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get category")
		h.respondCategoryError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, category)
}

func (h *categoryHTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateCategoryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	category, err := h.categoryUsecase.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update category")
		h.respondCategoryError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, category)
}

func (h *categoryHTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUsecase.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete category")
		h.respondCategoryError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "category deleted")
}

func (h *categoryHTTPHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	preferences, err := h.categoryUsecase.GetUserPreferences(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get category preferences")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, preferences)
}

func (h *categoryHTTPHandler) setPreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.SetPreferencesRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	preferences, err := h.categoryUsecase.SetUserPreferences(r.Context(), claims.UserID(), req.CategoryIDs)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to set category preferences")
		h.respondCategoryError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, preferences)
}

func (h *categoryHTTPHandler) respondCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrCategoryNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrCategoryAlreadyExists):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
