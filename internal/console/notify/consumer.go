package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type ResyncHandler interface {
	HandleResyncEvent(ctx context.Context, event models.ResyncEvent) error
}

// Consumer lê eventos de ressincronização de outras sessões. Mensagens que
// não decodificam ou sem motivo conhecido vão para a DLQ.
type Consumer struct {
	reader    *kafka.Reader
	dlqWriter *kafka.Writer
	handler   ResyncHandler
	logger    *slog.Logger
	topic     string
	dlqTopic  string
	done      chan struct{}
}

func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	dlqTopic string,
	handler ResyncHandler,
	logger *slog.Logger,
) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 1 * time.Second,
		Logger:         kafka.LoggerFunc(logger.Debug),
		ErrorLogger:    kafka.LoggerFunc(logger.Error),
	})

	dlqWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  dlqTopic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}

	return &Consumer{
		reader:    reader,
		dlqWriter: dlqWriter,
		handler:   handler,
		logger:    logger,
		topic:     topic,
		dlqTopic:  dlqTopic,
		done:      make(chan struct{}),
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Iniciando consumo de eventos do Kafka",
		"topic", c.topic,
	)

	go func() {
		defer close(c.done)

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					c.logger.Info("Consumo de eventos do Kafka encerrado")
					return
				}

				c.logger.Error("Erro ao ler mensagem do Kafka",
					"error", err,
				)

				continue
			}

			if err := c.processMessage(ctx, &msg); err != nil {
				c.logger.Error("Erro ao processar evento de ressincronização",
					"error", err,
					"offset", msg.Offset,
				)
			}
		}
	}()
}

// Done fecha quando o laço de consumo termina.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) error {
	event, err := DecodeResyncEvent(msg.Value)
	if err != nil {
		if sendErr := c.sendToDLQ(ctx, msg.Value, err.Error()); sendErr != nil {
			c.logger.Error("Erro ao enviar mensagem para a DLQ",
				"error", sendErr,
			)
		}

		return err
	}

	if err := c.handler.HandleResyncEvent(ctx, event); err != nil {
		return fmt.Errorf("erro ao tratar evento de ressincronização: %w", err)
	}

	return nil
}

func DecodeResyncEvent(value []byte) (models.ResyncEvent, error) {
	var event models.ResyncEvent

	if err := json.Unmarshal(value, &event); err != nil {
		return event, fmt.Errorf("erro de desserialização: %w", err)
	}

	switch event.Reason {
	case models.ActionUpdateFeeds, models.ActionClearCache:
	default:
		return event, fmt.Errorf("motivo de ressincronização desconhecido: %q", event.Reason)
	}

	return event, nil
}

func (c *Consumer) sendToDLQ(ctx context.Context, message []byte, errMsg string) error {
	c.logger.Info("Enviando mensagem para a DLQ",
		"error", errMsg,
		"topic", c.dlqTopic,
	)

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte("error"),
		Value: message,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(errMsg)},
			{Key: "timestamp", Value: []byte(time.Now().Format(time.RFC3339))},
		},
		Time: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("erro ao enviar mensagem para a DLQ: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}

	return c.dlqWriter.Close()
}
