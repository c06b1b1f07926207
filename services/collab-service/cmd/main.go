package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/config"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/handler"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/usecase"
	"github.com/teamforge/teamforge-api/shared/auth"
	"github.com/teamforge/teamforge-api/shared/chat"
	"github.com/teamforge/teamforge-api/shared/discovery"
	"github.com/teamforge/teamforge-api/shared/mailer"
	"github.com/teamforge/teamforge-api/shared/validator"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	projectRepo := repository.NewProjectMongoRepository(db)
	membershipRepo := repository.NewMembershipMongoRepository(ctx, &logger, db)
	applicationRepo := repository.NewApplicationMongoRepository(db)
	taskRepo := repository.NewTaskMongoRepository(db)
	commentRepo := repository.NewCommentMongoRepository(db)
	categoryRepo := repository.NewCategoryMongoRepository(ctx, &logger, db)
	transactor := repository.NewMongoTransactor(client)

	jwtAuth := auth.NewJWTAuthenticator(cfg.ServiceName, cfg.Token.Issuer)

	v, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	mail := mailer.NewMailer(&logger)
	tokenIssuer := chat.NewStreamTokenIssuer(&logger)

	usecases := handler.Usecases{
		Auth:        usecase.NewAuthUsecase(userRepo, jwtAuth, mail, cfg),
		TwoFactor:   usecase.NewTwoFactorUsecase(userRepo, jwtAuth, cfg),
		User:        usecase.NewUserUsecase(userRepo),
		Project:     usecase.NewProjectUsecase(projectRepo, membershipRepo, applicationRepo, taskRepo, commentRepo, categoryRepo, transactor),
		Application: usecase.NewApplicationUsecase(applicationRepo, projectRepo, membershipRepo, transactor),
		Task:        usecase.NewTaskUsecase(taskRepo, commentRepo, projectRepo, membershipRepo, transactor),
		Category:    usecase.NewCategoryUsecase(categoryRepo),
		Chat:        usecase.NewChatUsecase(userRepo, tokenIssuer),
	}

	router := handler.NewRouter(cfg, jwtAuth, v, &logger, usecases)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var registration *discovery.Registration
	if cfg.ConsulEnabled {
		registration, err = discovery.Register(&logger, cfg.ServiceName, cfg.HTTPHost, cfg.HTTPPort, "/health")
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register with consul")
		}
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting http server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	if registration != nil {
		registration.Deregister()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server gracefully")
	}
}
