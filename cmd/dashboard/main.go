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
	"github.com/couchcryptid/emission-dashboard/internal/analytics"
	"github.com/couchcryptid/emission-dashboard/internal/config"
	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/images"
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

	reader := logfile.NewReader(cfg.LogFile, logger)
	scanner := images.NewScanner(cfg.ImagesDir, logger)

	p := analytics.New(reader, analytics.Options{
		Window:        cfg.Window,
		Origin:        domain.NewLocationKey(cfg.OriginLat, cfg.OriginLon),
		ArrowLength:   cfg.ArrowLength,
		ArrowheadSize: cfg.ArrowheadSize,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, scanner, cfg.RecentImages, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the readiness latch before accepting traffic. A missing log is
	// fine; an unreadable one is fatal.
	if _, err := p.Refresh(ctx); err != nil {
		logger.Error("initial refresh failed", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
