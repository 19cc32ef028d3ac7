package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/wellness-services/internal/api/http"
	"github.com/spec-kit/wellness-services/internal/api/http/handlers"
	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/config"
	"github.com/spec-kit/wellness-services/internal/events"
	"github.com/spec-kit/wellness-services/internal/identity"
	"github.com/spec-kit/wellness-services/internal/observability"
	"github.com/spec-kit/wellness-services/internal/persistence"
	"github.com/spec-kit/wellness-services/internal/repository"
	"github.com/spec-kit/wellness-services/internal/service"
)

func main() {
	cfg, err := config.Load("activity-service", "8003")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, "migrations", "_activity_service.sql", logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	identityClient := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.Timeout(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	// The owner lookup reads the user service's table directly; both schemas live in one database.
	activityService := service.NewActivityService(service.ActivityDependencies{
		UserRepo:     repository.NewUserRepository(pg.Pool),
		ActivityRepo: repository.NewActivityRepository(pg.Pool),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics(cfg.App.Name)
	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterActivityRoutes(app, httptransport.ActivityRouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres":          pg,
			"identity_provider": identityClient,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: auth.NewAuthMiddleware(identityClient, logger),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("identity_provider", cfg.Identity.BaseURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
