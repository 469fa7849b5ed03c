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

	"github.com/meridian-erp/procure-gateway/internal/app"
	"github.com/meridian-erp/procure-gateway/internal/catalog"
	"github.com/meridian-erp/procure-gateway/internal/docnum"
	"github.com/meridian-erp/procure-gateway/internal/drafts"
	"github.com/meridian-erp/procure-gateway/internal/platform/cache"
	"github.com/meridian-erp/procure-gateway/internal/platform/db"
	"github.com/meridian-erp/procure-gateway/internal/upstream"
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

	backend := upstream.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)

	catalogRepo := catalog.NewRepository(pool, logger)
	catalogService := catalog.NewService(catalogRepo)

	numberStore := docnum.NewRedisStore(redisClient)
	allocator := docnum.NewAllocator(backend, numberStore, logger)

	draftRepo := drafts.NewRepository(redisClient, cfg.DraftTTL)
	draftService := drafts.NewService(draftRepo, catalogService, allocator, backend, logger)
	draftHandler := drafts.NewHandler(logger, draftService)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		DraftsHandler: draftHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
