package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/config"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/usecase"
	"github.com/teamforge/teamforge-api/shared/auth"
	"github.com/teamforge/teamforge-api/shared/httputil"
	"github.com/teamforge/teamforge-api/shared/middleware"
	"github.com/teamforge/teamforge-api/shared/validator"
)

// Usecases bundles everything the router mounts.
type Usecases struct {
	Auth        usecase.AuthUsecase
	TwoFactor   usecase.TwoFactorUsecase
	User        usecase.UserUsecase
	Project     usecase.ProjectUsecase
	Application usecase.ApplicationUsecase
	Task        usecase.TaskUsecase
	Category    usecase.CategoryUsecase
	Chat        usecase.ChatUsecase
}

// NewRouter builds the service's HTTP routing tree. Auth endpoints are
// public; everything else sits behind session validation, and turning the
// second factor off additionally requires a two-factor-complete session.
func NewRouter(
	cfg *config.Config,
	jwtAuth auth.JWTAuthenticator,
	validator *validator.Validator,
	logger *zerolog.Logger,
	usecases Usecases,
) http.Handler {
	authHandler := NewAuthHTTPHandler(usecases.Auth, validator, logger)
	twoFactorHandler := NewTwoFactorHTTPHandler(usecases.TwoFactor, validator, logger)
	userHandler := NewUserHTTPHandler(usecases.User, validator, logger)
	projectHandler := NewProjectHTTPHandler(usecases.Project, validator, logger)
	applicationHandler := NewApplicationHTTPHandler(usecases.Application, validator, logger)
	taskHandler := NewTaskHTTPHandler(usecases.Task, validator, logger)
	categoryHandler := NewCategoryHTTPHandler(usecases.Category, validator, logger)
	chatHandler := NewChatHTTPHandler(usecases.Chat, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.Message(w, http.StatusOK, "ok")
	})

	r.Group(func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(jwtAuth, cfg.Token.Secret))

		authHandler.RegisterProtectedRoutes(r)
		twoFactorHandler.RegisterProtectedRoutes(r)
		userHandler.RegisterProtectedRoutes(r)
		projectHandler.RegisterProtectedRoutes(r)
		applicationHandler.RegisterProtectedRoutes(r)
		taskHandler.RegisterProtectedRoutes(r)
		categoryHandler.RegisterProtectedRoutes(r)
		chatHandler.RegisterProtectedRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireTwoFactorAuthenticated)
			twoFactorHandler.RegisterTwoFactorRoutes(r)
		})
	})

	return r
}

// sessionClaims pulls the validated session claims out of the request
// context, responding 401 itself when they are missing.
func sessionClaims(w http.ResponseWriter, r *http.Request) (*auth.SessionClaims, bool) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}

	return claims, true
}
