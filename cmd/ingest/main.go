package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/emission-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/emission-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/emission-dashboard/internal/config"
	"github.com/couchcryptid/emission-dashboard/internal/ingest"
	"github.com/couchcryptid/emission-dashboard/internal/logfile"
	"github.com/couchcryptid/emission-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	appender, err := logfile.OpenAppender(cfg.LogFile)
	if err != nil {
		logger.Error("failed to open detection log", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)

	svc := ingest.New(reader, appender, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewOpsServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("ingest error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := appender.Close(); err != nil {
		logger.Error("detection log close error", "error", err)
	}

	logger.Info("shutdown complete")
}
