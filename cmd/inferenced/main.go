package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/voltgrid/station-inference-service/internal/adapter/http"
	kafkaadapter "github.com/voltgrid/station-inference-service/internal/adapter/kafka"
	"github.com/voltgrid/station-inference-service/internal/config"
	"github.com/voltgrid/station-inference-service/internal/domain"
	"github.com/voltgrid/station-inference-service/internal/engine"
	"github.com/voltgrid/station-inference-service/internal/model"
	"github.com/voltgrid/station-inference-service/internal/observability"
)

func main() {
	// Optional .env for local development; env vars win over file values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Fallback rules: built-in table unless an override file is configured.
	var rules []domain.FallbackRule
	if cfg.FallbackRulesPath != "" {
		rules, err = domain.LoadFallbackRules(cfg.FallbackRulesPath)
		if err != nil {
			logger.Error("failed to load fallback rules", "path", cfg.FallbackRulesPath, "error", err)
			os.Exit(1)
		}
		logger.Info("fallback rules loaded", "path", cfg.FallbackRulesPath, "rules", len(rules))
	}

	// Prediction-event publishing (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var notifier engine.Notifier
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		notifier = publisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("prediction-event publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("prediction-event publishing disabled")
	}

	store := model.NewStore(cfg.ModelsDir, cfg.ModelSuffixes)
	loader := model.NewLoader()
	eng := engine.New(store, loader, rules, notifier, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("inference service started", "models_dir", cfg.ModelsDir)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
