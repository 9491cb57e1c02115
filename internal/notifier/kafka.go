package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// KafkaNotifier publishes relay payloads fire-and-forget: Dispatch never
// returns an error and never blocks the transactional path. Failures are
// logged and counted, nothing more.
type KafkaNotifier struct {
	logger  *slog.Logger
	writer  *kafka.Writer
	timeout time.Duration
}

func NewKafkaNotifier(logger *slog.Logger, cfg Config) *KafkaNotifier {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaNotifier{
		logger: logger.With(slog.String("component", "notifier")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		timeout: timeout,
	}
}

func (n *KafkaNotifier) Dispatch(ctx context.Context, p Payload) {
	value, err := json.Marshal(p)
	if err != nil {
		n.logger.Error("failed to marshal payload", slog.Any("error", err), slog.String("type", string(p.Type)))
		return
	}

	// Detached from the caller's context so a finished request does not
	// cancel the write mid-flight.
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		msg := kafka.Message{
			Key:   []byte(p.Type),
			Value: value,
		}
		if err := n.writer.WriteMessages(ctx, msg); err != nil {
			dispatchFailures.WithLabelValues(string(p.Type)).Inc()
			n.logger.Error("failed to dispatch notification", slog.Any("error", err), slog.String("type", string(p.Type)))
			return
		}
		dispatched.WithLabelValues(string(p.Type)).Inc()
	}()
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
