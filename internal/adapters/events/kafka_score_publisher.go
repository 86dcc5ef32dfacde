package events

import (
	"context"
	"ecomap-score-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "ecomap.scores"

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Adapter: implements ports.ScorePublisher by writing JSON score events to Kafka.
// Messages are keyed by session id so one session's scores stay ordered.
// The writer is asynchronous: Publish only enqueues, and delivery failures are
// logged from the writer's completion callback.
type KafkaScorePublisher struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaScorePublisher(cfg KafkaConfig, log *zap.Logger) (*KafkaScorePublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka score publisher: at least one broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = DefaultTopic
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		Async:        true,
		Completion:   logDeliveryFailures(log),
	}
	return &KafkaScorePublisher{writer: w, log: log}, nil
}

func logDeliveryFailures(log *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		log.Warn("score events not delivered", zap.Int("messages", len(msgs)), zap.Error(err))
	}
}

func (p *KafkaScorePublisher) Publish(ctx context.Context, ev ports.ScoreEvent) error {
	if ev.ScoredAt.IsZero() {
		ev.ScoredAt = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish score: encode: %w", err)
	}

	msg := kafka.Message{Key: []byte(ev.SessionID), Value: value, Time: ev.ScoredAt}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish score: write: %w", err)
	}

	p.log.Debug("score event queued",
		zap.String("strategy", ev.Strategy),
		zap.Int("score", ev.Score),
		zap.String("session_id", ev.SessionID),
	)
	return nil
}

func (p *KafkaScorePublisher) Close() error {
	return p.writer.Close()
}

// NoopScorePublisher drops events; used when no brokers are configured.
type NoopScorePublisher struct{}

func (NoopScorePublisher) Publish(context.Context, ports.ScoreEvent) error { return nil }
