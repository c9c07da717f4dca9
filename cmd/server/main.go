package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/venky2821/finalproject/internal/config"
	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/router"
	"github.com/venky2821/finalproject/internal/service"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		m             = metrics.NewNoop()
		meterProvider *sdkmetric.MeterProvider
	)
	if cfg.MetricsEnabled {
		m, meterProvider, err = metrics.InitMetrics(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init metrics")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Async email: services enqueue, the pool delivers through the breaker.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP credentials not set; queued email will land in the DLQ")
	}
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailCB.OnTransition(func(from, to infra.CBState) {
		log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("smtp circuit breaker")
	})
	dispatcher := worker.NewDispatcher(rdb)
	emailWorker := worker.NewEmailWorker(mailer, mailCB, rdb, m)
	poolWG := worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers(emailWorker))

	restocker := service.NewRestockService(
		repository.NewProductRepository(db),
		repository.NewStockMovementRepository(db),
		dispatcher,
		cfg.AlertEmail,
		m,
	)
	cronWG := worker.StartRestockCron(ctx, restocker, cfg.RestockInterval)

	r := router.New(cfg, db, rdb, mailCB, m, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("merchandise inventory backend listening on :%d", cfg.Port)
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
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	cronWG.Wait()
	poolWG.Wait()

	if meterProvider != nil {
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics shutdown")
		}
	}
	log.Info().Msg("server exited")
}
