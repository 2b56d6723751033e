package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/config"
	"github.com/zamzam-app/feedback-service/internal/handlers"
	"github.com/zamzam-app/feedback-service/internal/repositories/postgres"
	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
	"github.com/zamzam-app/feedback-service/internal/validator"
	"github.com/zamzam-app/feedback-service/pkg"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	cacheService := cache.NewRedisCache(redisClient, zapLogger)

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	defer repo.Close()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Logger:    logger,
		Validator: validator.New(),
		Cache:     cacheService,
		Publisher: publisher,
		Uploads: services.UploadSignerConfig{
			BaseURL: cfg.Uploads.BaseURL,
			Secret:  cfg.Uploads.Secret,
			TTL:     cfg.Uploads.TTL,
		},
	})

	verifier := auth.NewCasdoorVerifier(auth.CasdoorConfig{
		Endpoint:     cfg.Casdoor.Endpoint,
		ClientID:     cfg.Casdoor.ClientID,
		ClientSecret: cfg.Casdoor.ClientSecret,
		Certificate:  cfg.Casdoor.Certificate,
		Organization: cfg.Casdoor.Organization,
		Application:  cfg.Casdoor.Application,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	requestLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(requestLogger))

	handlerManager := handlers.NewHandlerManager(serviceManager, verifier, requestLogger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
