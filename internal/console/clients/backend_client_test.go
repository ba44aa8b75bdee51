package clients_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/console/clients"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func newClient(t *testing.T, handler http.HandlerFunc) *clients.BackendClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		BackendBaseURL:             server.URL,
		HTTPRequestTimeout:         2 * time.Second,
		RetryBackoff:               10 * time.Millisecond,
		CBSlidingWindowSize:        100,
		CBMinimumRequiredCalls:     100,
		CBFailureRateThreshold:     100,
		CBPermittedCallsInHalfOpen: 10,
		CBWaitDurationInOpenState:  time.Second,
	}

	return clients.NewBackendClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBackendClient_ListNoticesSendsQuery(t *testing.T) {
	var query map[string]string

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/editais", r.URL.Path)

		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}

		_, _ = w.Write([]byte(`[{"id": 1, "nome": "Prêmio Nacional", "link": "https://x.org/1",
			"data_publicacao": "2024-03-01T10:00:00", "data_vencimento": null,
			"categoria": "Música", "descricao": null, "fonte": "Funarte"}]`))
	})

	notices, err := client.ListNotices(context.Background(), map[string]string{"search": "nacional", "categoria": "Música"})

	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "Prêmio Nacional", notices[0].Nome)
	assert.Nil(t, notices[0].DataVencimento)
	assert.Equal(t, "Música", notices[0].CategoriaValue())
	assert.Equal(t, map[string]string{"search": "nacional", "categoria": "Música"}, query)
}

func TestBackendClient_ListCategories(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["Música", "Teatro"]`))
	})

	categories, err := client.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Música", "Teatro"}, categories)
}

func TestBackendClient_CreateSource(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sources", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "Funarte", "url": "https://funarte.gov.br", "type": "web"}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 3, "name": "Funarte", "url": "https://funarte.gov.br", "type": "web", "active": true, "last_scrape": null}`))
	})

	source, err := client.CreateSource(context.Background(), models.SourceInput{
		Name: "Funarte",
		URL:  "https://funarte.gov.br",
		Type: models.SourceTypeWeb,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), source.ID)
	assert.True(t, source.Active)
	assert.Nil(t, source.LastScrape)
}

func TestBackendClient_ValidationErrorIsVerbatim(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "URL já cadastrada"}`))
	})

	_, err := client.CreateSource(context.Background(), models.SourceInput{Name: "a", URL: "https://a.org", Type: models.SourceTypeWeb})

	var validation *domainerrors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "URL já cadastrada", validation.Message)
	assert.Equal(t, "URL já cadastrada", domainerrors.UserMessage(err, domainerrors.FallbackCreateSource))
}

func TestBackendClient_ValidationWithoutBodyUsesFallback(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<html>bad</html>`))
	})

	_, err := client.PreviewSource(context.Background(), "https://a.org", models.SourceTypeRSS)

	var validation *domainerrors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, domainerrors.FallbackPreview, validation.Message)
}

func TestBackendClient_NotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteSource(context.Background(), 42)

	var notFound *domainerrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ID)
}

func TestBackendClient_ServerErrorIsNetworkError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Erro ao buscar fontes: timeout"}`))
	})

	_, err := client.ListSources(context.Background())

	var network *domainerrors.ErrNetwork
	require.ErrorAs(t, err, &network)
	assert.Equal(t, "Erro ao buscar fontes: timeout", network.Message)
	assert.Equal(t, "list_sources", network.Op)
}

func TestBackendClient_TransportErrorUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	cfg := &config.Config{
		BackendBaseURL:             server.URL,
		HTTPRequestTimeout:         time.Second,
		CBSlidingWindowSize:        100,
		CBMinimumRequiredCalls:     100,
		CBFailureRateThreshold:     100,
		CBPermittedCallsInHalfOpen: 10,
		CBWaitDurationInOpenState:  time.Second,
	}

	client := clients.NewBackendClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.UpdateFeeds(context.Background())

	var network *domainerrors.ErrNetwork
	require.ErrorAs(t, err, &network)
	assert.Equal(t, domainerrors.FallbackUpdateFeeds, network.Message)
}

func TestBackendClient_ActionResult(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clear-cache", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": false, "message": "Nada para limpar"}`))
	})

	result, err := client.ClearCache(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Nada para limpar", result.Message)
}

func TestBackendClient_UpdateSendsOnlyChangedFields(t *testing.T) {
	var calls int32

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/sources/7", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"active": false}`, string(body))

		_, _ = w.Write([]byte(`{"id": 7, "name": "x", "url": "https://x.org", "type": "rss", "active": false, "last_scrape": "2024-04-01T12:00:00"}`))
	})

	active := false

	source, err := client.UpdateSource(context.Background(), 7, models.SourcePatch{Active: &active})

	require.NoError(t, err)
	assert.False(t, source.Active)
	require.NotNil(t, source.LastScrape)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
