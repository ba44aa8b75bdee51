package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type Publisher interface {
	PublishResync(ctx context.Context, event models.ResyncEvent) error
	Close() error
}

type KafkaResyncPublisher struct {
	producer *kafka.Writer
	logger   *slog.Logger
	topic    string
}

func NewKafkaResyncPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaResyncPublisher {
	producer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}

	return &KafkaResyncPublisher{
		producer: producer,
		logger:   logger,
		topic:    topic,
	}
}

func (p *KafkaResyncPublisher) PublishResync(ctx context.Context, event models.ResyncEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao serializar evento de ressincronização: %w", err)
	}

	err = p.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Origin),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("Erro ao publicar evento no Kafka",
			"error", err,
			"topic", p.topic,
		)

		return fmt.Errorf("erro ao publicar evento no Kafka: %w", err)
	}

	p.logger.Info("Evento de ressincronização publicado",
		"reason", event.Reason,
		"topic", p.topic,
	)

	return nil
}

func (p *KafkaResyncPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher é usado quando não há transporte entre sessões.
type NoopPublisher struct{}

func (NoopPublisher) PublishResync(context.Context, models.ResyncEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

func ParseBrokers(raw string) []string {
	var brokers []string

	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}

func NewPublisher(cfg *config.Config, logger *slog.Logger) Publisher {
	if strings.EqualFold(cfg.MessageTransport, config.TransportKafka) {
		return NewKafkaResyncPublisher(ParseBrokers(cfg.KafkaBrokers), cfg.TopicResync, logger)
	}

	return NoopPublisher{}
}
