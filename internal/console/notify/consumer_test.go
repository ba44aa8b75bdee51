package notify_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/cultura-alerta/go-editais/internal/console/notify"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []models.ResyncEvent
}

func (h *recordingHandler) HandleResyncEvent(_ context.Context, event models.ResyncEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, event)

	return nil
}

func (h *recordingHandler) received() []models.ResyncEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]models.ResyncEvent(nil), h.events...)
}

func createTopics(ctx context.Context, t *testing.T, brokers []string, topics ...string) {
	t.Helper()

	client := &segkafka.Client{Addr: segkafka.TCP(brokers...), Timeout: 30 * time.Second}

	configs := make([]segkafka.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		configs = append(configs, segkafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}

	require.Eventually(t, func() bool {
		resp, err := client.CreateTopics(ctx, &segkafka.CreateTopicsRequest{Topics: configs})
		if err != nil {
			return false
		}

		for _, topicErr := range resp.Errors {
			if topicErr != nil && !errors.Is(topicErr, segkafka.TopicAlreadyExists) {
				return false
			}
		}

		return true
	}, 90*time.Second, 5*time.Second)
}

func TestResyncRoundTripWithKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("Pulando teste de integração no modo short")
	}

	ctx := context.Background()
	logger := discardLogger()

	kafkaContainer, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	defer func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_ = kafkaContainer.Terminate(termCtx)
	}()

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	topic := fmt.Sprintf("test-resync-%d", time.Now().UnixNano())
	dlqTopic := fmt.Sprintf("test-resync-dlq-%d", time.Now().UnixNano())

	createTopics(ctx, t, brokers, topic, dlqTopic)

	handler := &recordingHandler{}
	consumer := notify.NewConsumer(brokers, fmt.Sprintf("test-group-%d", time.Now().UnixNano()), topic, dlqTopic, handler, logger)

	defer func() { _ = consumer.Close() }()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer.Start(consumerCtx)

	publisher := notify.NewKafkaResyncPublisher(brokers, topic, logger)
	defer func() { _ = publisher.Close() }()

	rawWriter := &segkafka.Writer{Addr: segkafka.TCP(brokers...), Topic: topic, BatchTimeout: 10 * time.Millisecond}
	defer func() { _ = rawWriter.Close() }()

	require.NoError(t, rawWriter.WriteMessages(ctx, segkafka.Message{Value: []byte("nao e json")}))

	event := models.ResyncEvent{Reason: models.ActionUpdateFeeds, Origin: "outra-sessao", At: time.Now().UTC()}
	require.NoError(t, publisher.PublishResync(ctx, event))

	require.Eventually(t, func() bool {
		return len(handler.received()) == 1
	}, 30*time.Second, 200*time.Millisecond)

	got := handler.received()[0]
	assert.Equal(t, models.ActionUpdateFeeds, got.Reason)
	assert.Equal(t, "outra-sessao", got.Origin)

	dlqReader := segkafka.NewReader(segkafka.ReaderConfig{Brokers: brokers, Topic: dlqTopic, MinBytes: 1, MaxBytes: 10e6})
	defer func() { _ = dlqReader.Close() }()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	dead, err := dlqReader.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, "nao e json", string(dead.Value))

	cancel()

	select {
	case <-consumer.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("consumidor não terminou após cancelamento")
	}
}
