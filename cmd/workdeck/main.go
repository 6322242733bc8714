package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/workdeck/workdeck/internal/app"
	"github.com/workdeck/workdeck/internal/auth"
	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/billing"
	"github.com/workdeck/workdeck/internal/notifications"
	"github.com/workdeck/workdeck/internal/observability"
	"github.com/workdeck/workdeck/internal/orgs"
	"github.com/workdeck/workdeck/internal/platform/cache"
	"github.com/workdeck/workdeck/internal/platform/db"
	"github.com/workdeck/workdeck/internal/presence"
	"github.com/workdeck/workdeck/internal/shared"
	"github.com/workdeck/workdeck/internal/tasks"
	"github.com/workdeck/workdeck/internal/users"
	"github.com/workdeck/workdeck/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "workdeck_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo)

	metrics := observability.NewMetrics()

	authzMiddleware := authz.Middleware{
		Identities: authService,
		Scope:      authz.ScopeResolver{Impersonation: orgs.SessionImpersonation{}},
		Gate:       authz.Gate{Source: billingService},
		Denials:    metrics,
		Logger:     logger,
	}

	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, authzMiddleware)

	orgsRepo := orgs.NewRepository(dbpool)
	orgsService := orgs.NewService(orgsRepo, auditLogger)
	orgsHandler := orgs.NewHandler(logger, orgsService, auditLogger, authzMiddleware)

	billingHandler := billing.NewHandler(logger, billingService, authzMiddleware.Gate, authzMiddleware, cfg.TrialPeriod)

	notificationsRepo := notifications.NewRepository(dbpool)
	notificationsService := notifications.NewService(notificationsRepo, jobClient, logger)
	notificationsHandler := notifications.NewHandler(logger, notificationsService, authzMiddleware)

	tasksRepo := tasks.NewRepository(dbpool)
	tasksService := tasks.NewService(tasksRepo, auditLogger, idempotencyStore, notificationsService)
	tasksHandler := tasks.NewHandler(logger, tasksService, authzMiddleware)

	presenceHub := presence.NewHub(redisClient, logger)
	presenceHandler := presence.NewHandler(logger, presenceHub, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Authz:          authzMiddleware,

		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		OrgsHandler:          orgsHandler,
		BillingHandler:       billingHandler,
		TasksHandler:         tasksHandler,
		NotificationsHandler: notificationsHandler,
		PresenceHandler:      presenceHandler,
		JobsHandler:          jobsHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("server run", slog.Any("error", err))
		os.Exit(1)
	}
}
