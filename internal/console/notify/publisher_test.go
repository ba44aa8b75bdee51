package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/console/notify"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPublisher_SelectsTransport(t *testing.T) {
	cfg := &config.Config{MessageTransport: config.TransportNone}

	publisher := notify.NewPublisher(cfg, discardLogger())
	assert.IsType(t, notify.NoopPublisher{}, publisher)
	require.NoError(t, publisher.PublishResync(context.Background(), models.ResyncEvent{Reason: models.ActionUpdateFeeds}))
	require.NoError(t, publisher.Close())

	cfg = &config.Config{
		MessageTransport: "kafka",
		KafkaBrokers:     "localhost:9092",
		TopicResync:      "editais-resync",
	}

	publisher = notify.NewPublisher(cfg, discardLogger())
	assert.IsType(t, &notify.KafkaResyncPublisher{}, publisher)
	require.NoError(t, publisher.Close())
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, notify.ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, notify.ParseBrokers(""))
}

func TestDecodeResyncEvent(t *testing.T) {
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(models.ResyncEvent{Reason: models.ActionClearCache, Origin: "sessao-1", At: at})
	require.NoError(t, err)

	event, err := notify.DecodeResyncEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, models.ActionClearCache, event.Reason)
	assert.Equal(t, "sessao-1", event.Origin)
	assert.True(t, at.Equal(event.At))

	_, err = notify.DecodeResyncEvent([]byte("{quebrado"))
	require.Error(t, err)

	_, err = notify.DecodeResyncEvent([]byte(`{"reason":"reboot","origin":"x"}`))
	require.Error(t, err)
}
