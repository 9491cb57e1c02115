package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"

	"github.com/tradegate/checkout-service/internal/config"
	"github.com/tradegate/checkout-service/internal/notifier"
	"github.com/tradegate/checkout-service/pkg/utils"
)

type Sender interface {
	Send(ctx context.Context, text string) error
}

// Consumer reads relay payloads from the notifications topic and forwards
// the formatted text to the messaging channel. Delivery is best effort:
// payloads that keep failing end up in the DLQ, never back in checkout.
type Consumer struct {
	logger   *slog.Logger
	reader   *kafka.Reader
	dlq      *kafka.Writer
	validate *validator.Validate
	sender   Sender
}

func NewConsumer(logger *slog.Logger, cfg config.Kafka, sender Sender) *Consumer {
	return &Consumer{
		logger: logger.With(slog.String("handler", "relay")),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate: validator.New(),
		sender:   sender,
	}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			c.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		if err := c.handleMessage(ctx, m); err != nil {
			relayFailed.Inc()
			c.logger.Error("failed to relay message", slog.Any("error", err))

			if err := c.writeToDLQ(ctx, m); err != nil {
				c.logger.Error("failed to write message to DLQ", slog.Any("error", err))
				continue
			}
		} else {
			relayDelivered.Inc()
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, m kafka.Message) error {
	var payload notifier.Payload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if err := c.validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	text, err := Format(payload)
	if err != nil {
		return fmt.Errorf("failed to format payload: %w", err)
	}

	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		Multiplier:   2,
	}
	return utils.Retry(cfg, func() error {
		return c.sender.Send(ctx, text)
	})
}

func (c *Consumer) writeToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return c.dlq.WriteMessages(ctx, m)
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}
	return c.dlq.Close()
}
