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

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/app"
	"github.com/yoiioy700/rbac-system/internal/assignments"
	"github.com/yoiioy700/rbac-system/internal/audit"
	"github.com/yoiioy700/rbac-system/internal/observability"
	"github.com/yoiioy700/rbac-system/internal/platform/cache"
	"github.com/yoiioy700/rbac-system/internal/platform/db"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/record"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/system"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	deriver := address.NewDeriver(cfg.AddressSeed)
	store := record.NewCachedStore(record.NewPostgresStore(pool), redisClient, cfg.CacheTTL, logger)
	recorder := audit.NewRecorder(asynqClient, logger)

	systemService := system.NewService(store, deriver, recorder)
	rolesService := roles.NewService(store, deriver, systemService, recorder)
	assignmentsService := assignments.NewService(store, deriver, systemService, rolesService, recorder)
	engine := rbac.NewEngine(assignmentsService, rolesService)
	executor := rbac.NewExecutor(engine, recorder, nil)

	auditRepo := audit.NewRepository(pool)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SystemHandler:      system.NewHandler(logger, systemService),
		RolesHandler:       roles.NewHandler(logger, rolesService),
		AssignmentsHandler: assignments.NewHandler(logger, assignmentsService),
		RBACHandler:        rbac.NewHandler(logger, engine, executor, metrics),
		AuditHandler:       audit.NewHandler(logger, auditRepo),
		RBACMiddleware:     rbac.Middleware{Engine: engine, Logger: logger},
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("rbacd listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
