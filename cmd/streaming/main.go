package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/database"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/setup"
	setuplogger "github.com/povarna/generative-ai-agents/clinical-validator/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/stream"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/stream/redis"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()

	// Setup logging
	logger := setuplogger.Console(cfg.LogLevel)
	log.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Optional audit sink
	var sink redis.OutcomeSink
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare audit table")
		}
		sink = db
		log.Info().Msg("Recording outcomes to PostgreSQL")
	}

	// Redis stream
	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			envOr("VALIDATION_REQUEST_STREAM", redis.DefaultRequestStream),
			envOr("VALIDATION_GROUP", redis.DefaultGroup),
			envOr("HOSTNAME", "clinical-validator"),
			envOr("VALIDATION_RESULT_STREAM", redis.DefaultResultStream),
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, sink, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}
	defer consumer.Stop()

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for a signal, then for the in-flight message before closing Redis
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down...")
		<-done
	case <-done:
	}

	log.Info().Msg("Clinical Validator worker stopped")
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
