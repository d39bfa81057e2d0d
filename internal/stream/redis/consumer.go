package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
	redisconn "github.com/povarna/generative-ai-agents/clinical-validator/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// StreamClient is the subset of the Redis client used by the consumer.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Executor interface {
	Execute(ctx context.Context, event models.ValidationEvent) models.ValidationOutcome
}

// OutcomeSink records outcomes for audit. Optional.
type OutcomeSink interface {
	SaveOutcome(ctx context.Context, outcome models.ValidationOutcome) error
}

type Consumer struct {
	client         StreamClient
	cfg            RedisStreamConfig
	executor       Executor
	sink           OutcomeSink
	logger         *zerolog.Logger
	closeFn        func() error
	blockTimeout   time.Duration
	deliverTimeout time.Duration // bounds publish, record and ack after cancellation
}

func NewConsumer(client StreamClient, cfg RedisStreamConfig, exec Executor, sink OutcomeSink, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:         client,
		cfg:            cfg,
		executor:       exec,
		sink:           sink,
		logger:         logger,
		blockTimeout:   2 * time.Second,
		deliverTimeout: 5 * time.Second,
	}
}

// WithCloser registers the function Stop uses to release the connection.
func (c *Consumer) WithCloser(closeFn func() error) *Consumer {
	c.closeFn = closeFn
	return c
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Str("result_stream", c.cfg.ResultStream).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    1,
			Block:    c.blockTimeout,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, stream := range msgs {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values[redisconn.PayloadField].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var event models.ValidationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message: ACK to skip it
		return
	}
	if event.EventID == "" {
		event.EventID = msg.ID
	}

	outcome := c.executor.Execute(ctx, event)
	if outcome.Fallback && ctx.Err() != nil {
		// Interrupted by shutdown; leave it pending for redelivery.
		c.logger.Warn().Str("id", msg.ID).Msg("Validation interrupted, message left pending")
		return
	}

	// An outcome that was produced is delivered even during shutdown.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.deliverTimeout)
	defer cancel()

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", outcome.EventID).
		Bool("fallback", outcome.Fallback).
		Bool("safety_violation", outcome.Result.SafetyViolation).
		Msg("Validation complete")

	if c.cfg.ResultStream != "" {
		if _, err := redisconn.PublishJSON(ctx, c.client, c.cfg.ResultStream, outcome); err != nil {
			c.logger.Error().Err(err).Str("request_id", outcome.EventID).Msg("Failed to publish outcome")
		}
	}

	if c.sink != nil {
		if err := c.sink.SaveOutcome(ctx, outcome); err != nil {
			c.logger.Error().Err(err).Str("request_id", outcome.EventID).Msg("Failed to record outcome")
		}
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
