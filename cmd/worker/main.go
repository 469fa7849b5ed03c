package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/procure-gateway/internal/app"
	"github.com/meridian-erp/procure-gateway/internal/catalog"
	"github.com/meridian-erp/procure-gateway/internal/platform/db"
	"github.com/meridian-erp/procure-gateway/internal/upstream"
	"github.com/meridian-erp/procure-gateway/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	backend := upstream.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	catalogRepo := catalog.NewRepository(pool, logger)
	syncer := catalog.NewSyncer(backend, catalogRepo)

	syncTask, err := jobs.NewCatalogSyncTask(false)
	if err != nil {
		logger.Error("build catalog sync task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogSync, Handler: jobs.NewCatalogSyncHandler(syncer, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.CatalogSyncSpec, Task: syncTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
