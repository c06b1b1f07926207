package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/payload"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/usecase"
	"github.com/teamforge/teamforge-api/shared/httputil"
)

type chatHTTPHandler struct {
	chatUsecase usecase.ChatUsecase
	logger      *zerolog.Logger
}

// NewChatHTTPHandler creates a new HTTP handler for chat token issuance.
func NewChatHTTPHandler(chatUsecase usecase.ChatUsecase, logger *zerolog.Logger) *chatHTTPHandler {
	return &chatHTTPHandler{chatUsecase: chatUsecase, logger: logger}
}

// RegisterProtectedRoutes mounts the chat endpoints.
func (h *chatHTTPHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/chat/token", h.getToken)
}

func (h *chatHTTPHandler) getToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(w, r)
	if !ok {
		return
	}

	token, err := h.chatUsecase.GetChatToken(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue chat token")

		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, err.Error())
		default:
			httputil.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, payload.ChatTokenResponse{Token: token})
}
