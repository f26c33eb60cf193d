package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/reclamos-service/internal/api/http"
	"github.com/spec-kit/reclamos-service/internal/api/http/handlers"
	"github.com/spec-kit/reclamos-service/internal/auth"
	"github.com/spec-kit/reclamos-service/internal/config"
	"github.com/spec-kit/reclamos-service/internal/events"
	"github.com/spec-kit/reclamos-service/internal/geo"
	"github.com/spec-kit/reclamos-service/internal/observability"
	"github.com/spec-kit/reclamos-service/internal/persistence"
	"github.com/spec-kit/reclamos-service/internal/planner"
	"github.com/spec-kit/reclamos-service/internal/repository"
	"github.com/spec-kit/reclamos-service/internal/service"
	"github.com/spec-kit/reclamos-service/internal/sheets"
	"github.com/spec-kit/reclamos-service/internal/worker"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := geo.Validate(); err != nil {
		logger.Fatal("zone table invalid", zap.Error(apperrors.NewConfigInvalid(err)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics(string(cfg.Store.Backend))

	var (
		ticketStore planner.TicketStore
		intake      service.TicketIntake
		sink        planner.NotificationSink
		users       service.UserDirectory
		customers   service.CustomerDirectory
		healthDeps  = map[string]handlers.Pinger{}
	)

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		pool := pg.PoolHandle()
		ticketRepo := repository.NewTicketRepository(pool)
		ticketStore = ticketRepo
		intake = ticketRepo
		sink = repository.NewNotificationRepository(pool)
		users = repository.NewUserRepository(pool)
		customers = repository.NewCustomerRepository(pool)
		healthDeps["postgres"] = pg

	case config.BackendSheet:
		client := sheets.NewClient(sheets.ClientConfig{
			BaseURL:           cfg.Sheet.BaseURL,
			SpreadsheetID:     cfg.Sheet.SpreadsheetID,
			Token:             cfg.Sheet.Token,
			RequestsPerSecond: cfg.Sheet.RequestsPerSecond,
			Timeout:           time.Duration(cfg.Sheet.RequestTimeoutSecs) * time.Second,
		}, logger)

		ticketSheet := sheets.NewTicketSheet(client, cfg.Sheet.TicketWorksheet, logger)
		ticketStore = ticketSheet
		intake = ticketSheet
		sink = sheets.NewNotificationSheet(client, cfg.Sheet.NotifyWorksheet)
		users = sheets.NewUserSheet(client, cfg.Sheet.UserWorksheet, logger)
		customers = sheets.NewCustomerSheet(client, cfg.Sheet.CustomerWorksheet, logger)

	default:
		logger.Fatal("unknown store backend", zap.String("backend", string(cfg.Store.Backend)))
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()
	if rdb.Client != nil {
		ticketStore = repository.NewCachedTicketStore(ticketStore, rdb.Client, cfg.Store.CacheTTL, logger)
		healthDeps["redis"] = rdb
	}

	dispatcher := events.NewDispatcher(logger, 128)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(users, tokenMgr, logger)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, users)

	committer := planner.NewCommitter(ticketStore, sink, logger)
	plannerService := service.NewPlannerService(ticketStore, committer, dispatcher, metrics, logger)
	ticketService := service.NewTicketService(intake, customers, dispatcher, logger)

	notificationService := service.NewNotificationService(sink, cfg.Notification.WebhookURL, logger)
	notificationService.Register(dispatcher)

	go dispatcher.Run(ctx)
	go worker.StartSessionJanitor(ctx, plannerService, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, 30*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, version, metrics, healthDeps),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Planner:        handlers.NewPlannerHandler(plannerService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	dispatcher.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
