package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/config"
	"github.com/MrCorrectoMX/POSQuimo/internal/infra"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"
	"github.com/MrCorrectoMX/POSQuimo/internal/router"
	"github.com/MrCorrectoMX/POSQuimo/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	margen, err := decimal.NewFromString(cfg.MargenVenta)
	if err != nil || !margen.IsPositive() {
		log.Fatal().Str("margen_venta", cfg.MargenVenta).Msg("MARGEN_VENTA must be a positive decimal")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool for async tasks (weekly report PDF, email). Handlers are
	// wired here (composition root) so the pool has full access to all
	// infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	fxClient := infra.NewFXRateClient(cfg.FXApiURL)
	dispatcher := worker.NewDispatcher(rdb)
	ventaRepo := repository.NewVentaRepository(db)

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register("reporte_corte", worker.NewReporteWorker(ventaRepo, dispatcher, cfg.ReportStoragePath, cfg.AdminEmail))
	pool.Register("email", worker.NewEmailWorker(mailer))
	pool.Start(ctx)
	worker.StartRetryCron(ctx, rdb)

	r := router.New(cfg, db, rdb, fxClient, dispatcher, margen)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("POSQuimo backend listening on :%d", cfg.Port)
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
