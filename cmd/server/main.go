package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wiremon/internal/config"
	"wiremon/internal/infra"
	"wiremon/internal/repository"
	"wiremon/internal/router"
	"wiremon/internal/service"
	"wiremon/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed reference data: the stage catalog and one stock row per core
	// stage. Both are no-ops when rows already exist.
	configRepo := repository.NewStageConfigRepository(db)
	prodRepo := repository.NewProductionRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	catalogSvc := service.NewStageCatalogService(configRepo)
	orderSvc := service.NewOrderService(orderRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, prodRepo, orderSvc)
	if err := catalogSvc.EnsureDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed stage catalog")
	}
	if err := inventorySvc.EnsureStocks(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed stage inventory")
	}

	// Start goroutine worker pool for async tasks (report rendering, alert
	// mail). Worker handlers are wired here (composition root) so that the
	// pool has full access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	analyticsSvc := service.NewAnalyticsService(prodRepo, configRepo, orderRepo, batchRepo, cfg.Thresholds())
	reportSvc := service.NewReportService(prodRepo, analyticsSvc, inventorySvc, cfg.ReportStoragePath)

	workerHandlers := &worker.WorkerHandlers{
		Report: worker.NewReportWorker(reportSvc, dispatcher),
		Alert:  worker.NewAlertWorker(mailer, cfg.AlertEmailTo),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("wiremon backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
