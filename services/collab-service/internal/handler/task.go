package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/payload"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/usecase"
	"github.com/teamforge/teamforge-api/shared/httputil"
	"github.com/teamforge/teamforge-api/shared/validator"
)

type taskHTTPHandler struct {
	taskUsecase usecase.TaskUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewTaskHTTPHandler creates a new HTTP handler for the task and comment
// endpoints.
func NewTaskHTTPHandler(
	taskUsecase usecase.TaskUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *taskHTTPHandler {
	return &taskHTTPHandler{
		taskUsecase: taskUsecase,
		validator:   validator,
		logger:      logger,
	}
}

// RegisterProtectedRoutes mounts the task and comment endpoints.
func (h *taskHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/tasks", h.create)
	r.Get("/tasks/me", h.listMine)
	r.Get("/tasks/project/{projectId}", h.listProject)
	r.Get("/tasks/{id}", h.get)
	r.Patch("/tasks/{id}", h.update)
	r.Delete("/tasks/{id}", h.delete)

	r.Post("/tasks/{id}/comments", h.createComment)
	r.Get("/tasks/{id}/comments", h.listComments)
	r.Patch("/comments/{id}", h.updateComment)
	r.Delete("/comments/{id}", h.deleteComment)
}

func (h *taskHTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.CreateTaskRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.TaskPriority(req.Priority)
	}

	task, err := h.taskUsecase.CreateTask(r.Context(), claims.UserID(), usecase.CreateTaskParams{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create task")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, task)
}

func (h *taskHTTPHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskUsecase.GetUserTasks(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list user tasks")
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httputil.JSON(w, http.StatusOK, tasks)
}

func (h *taskHTTPHandler) listProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskUsecase.GetProjectTasks(r.Context(), chi.URLParam(r, "projectId"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list project tasks")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, tasks)
}

func (h *taskHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	task, err := h.taskUsecase.GetTask(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get task")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

func (h *taskHTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.UpdateTaskRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	params := usecase.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		params.Status = &status
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		params.Priority = &priority
	}

	task, err := h.taskUsecase.UpdateTask(r.Context(), chi.URLParam(r, "id"), claims.UserID(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update task")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

func (h *taskHTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	if err := h.taskUsecase.DeleteTask(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete task")
		h.respondTaskError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "task deleted")
}

func (h *taskHTTPHandler) createComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.CreateCommentRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	comment, err := h.taskUsecase.CreateComment(r.Context(), chi.URLParam(r, "id"), claims.UserID(), req.Content)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create comment")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, comment)
}

func (h *taskHTTPHandler) listComments(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	comments, err := h.taskUsecase.GetTaskComments(r.Context(), chi.URLParam(r, "id"), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list task comments")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, comments)
}

func (h *taskHTTPHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	var req payload.UpdateCommentRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if details := h.validator.Validate(req); details != nil {
		httputil.ValidationError(w, details)
		return
	}

	comment, err := h.taskUsecase.UpdateComment(r.Context(), chi.URLParam(r, "id"), claims.UserID(), req.Content)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update comment")
		h.respondTaskError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, comment)
}

func (h *taskHTTPHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	if err := h.taskUsecase.DeleteComment(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete comment")
		h.respondTaskError(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "comment deleted")
}

func (h *taskHTTPHandler) respondTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrCommentNotFound),
		errors.Is(err, usecase.ErrProjectNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNotProjectMember),
		errors.Is(err, usecase.ErrNotCommentAuthor),
		errors.Is(err, usecase.ErrCannotDeleteTask):
		httputil.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrAssigneeNotMember):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	default:
		httputil.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
