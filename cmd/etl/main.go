package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	csvadapter "github.com/couchcryptid/lead-line-etl/internal/adapter/csv"
	"github.com/couchcryptid/lead-line-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/lead-line-etl/internal/adapter/kafka"
	"github.com/couchcryptid/lead-line-etl/internal/config"
	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/couchcryptid/lead-line-etl/internal/observability"
	"github.com/couchcryptid/lead-line-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader := csvadapter.NewReader(cfg, logger)
	normalizer := domain.NewNormalizer(cfg.Columns)
	store := pipeline.NewStore()

	// Kafka publishing is optional (KAFKA_ENABLED).
	var publishers []pipeline.SnapshotLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publishers = append(publishers, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(reader, normalizer, store, publishers, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, p, metrics, cfg.RankCacheSize, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP re-reads the source CSV.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	reload := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				select {
				case reload <- struct{}{}:
				default: // a reload is already pending
				}
			}
		}
	}()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ingest pipeline.
	go func() {
		if err := p.Serve(ctx, reload); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

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
