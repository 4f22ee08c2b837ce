package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/bee-colony-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bee-colony-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/bee-colony-dashboard/internal/adapter/render"
	"github.com/couchcryptid/bee-colony-dashboard/internal/config"
	"github.com/couchcryptid/bee-colony-dashboard/internal/dashboard"
	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/couchcryptid/bee-colony-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// View events are feature-flagged via KAFKA_ENABLED / KAFKA_VIEWS_TOPIC.
	var publisher dashboard.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
	} else {
		logger.Info("kafka view publishing disabled")
	}

	svc := dashboard.New(publisher, logger, metrics)
	renderer := render.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, renderer, logger)

	// Start HTTP server. /readyz reports 503 until the dataset is loaded.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	loader := dataset.NewLoader(dataset.S3Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		PathStyle: cfg.S3PathStyle,
	}, logger)
	d, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1) //nolint:gocritic // nothing to drain before the dataset exists
	}
	svc.SetDataset(d)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
