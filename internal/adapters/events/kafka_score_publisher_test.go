package events

import (
	"context"
	"ecomap-score-service/internal/ports"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaScorePublisherPublish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaScorePublisher{writer: w, log: zaptest.NewLogger(t)}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), ports.ScoreEvent{
		SessionID: "s-1", Strategy: "rubric", Score: 825, Placements: 20, ScoredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "s-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "rubric", got["strategy"])
	assert.EqualValues(t, 825, got["score"])
	assert.EqualValues(t, 20, got["placements"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaScorePublisherWriteError(t *testing.T) {
	p := &KafkaScorePublisher{writer: &recordingWriter{err: errors.New("broker down")}, log: zaptest.NewLogger(t)}

	err := p.Publish(context.Background(), ports.ScoreEvent{Strategy: "evaluator", Score: 500})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaScorePublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaScorePublisher(KafkaConfig{}, nil)
	assert.Error(t, err)

	p, err := NewKafkaScorePublisher(KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	require.NoError(t, err)
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async, "publishing must not block the request path")
	assert.NotNil(t, w.Completion)
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.NoError(t, p.Close())
}

func TestNoopScorePublisher(t *testing.T) {
	assert.NoError(t, NoopScorePublisher{}.Publish(context.Background(), ports.ScoreEvent{}))
}

func TestLogDeliveryFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	done := logDeliveryFailures(zap.New(core))

	done([]kafka.Message{{Key: []byte("s-1")}}, nil)
	assert.Equal(t, 0, logs.Len())

	done([]kafka.Message{{Key: []byte("s-1")}, {Key: []byte("s-2")}}, errors.New("broker down"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "score events not delivered", entry.Message)
	assert.EqualValues(t, 2, entry.ContextMap()["messages"])
}
