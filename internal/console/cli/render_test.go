package cli_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cultura-alerta/go-editais/internal/console/cli"
	"github.com/cultura-alerta/go-editais/internal/console/service"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

var renderNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func TestDeadlineLabel(t *testing.T) {
	tests := []struct {
		name     string
		deadline *time.Time
		expected string
	}{
		{"sem prazo", nil, "Sem prazo"},
		{"vencido", ptr(renderNow.Add(-48 * time.Hour)), "Vencido"},
		{"hoje", ptr(renderNow), "Vence hoje"},
		{"um dia", ptr(renderNow.Add(12 * time.Hour)), "Urgente: 1 dia"},
		{"urgente", ptr(renderNow.Add(7 * 24 * time.Hour)), "Urgente: 7 dias"},
		{"aberto", ptr(renderNow.Add(20 * 24 * time.Hour)), "20 dias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notice := models.Notice{DataVencimento: tt.deadline}
			assert.Equal(t, tt.expected, cli.DeadlineLabel(notice, renderNow))
		})
	}
}

func TestRenderNotices(t *testing.T) {
	var out bytes.Buffer

	notices := []models.Notice{
		{ID: 1, Nome: "Edital Música", Fonte: "Funarte", Categoria: ptr("Música"), DataVencimento: ptr(renderNow.Add(3 * 24 * time.Hour))},
		{ID: 2, Nome: "Edital Teatro", Fonte: "Sesc"},
	}

	require.NoError(t, cli.RenderNotices(&out, notices, renderNow))

	text := out.String()
	assert.Contains(t, text, "Edital Música")
	assert.Contains(t, text, "Urgente: 3 dias")
	assert.Contains(t, text, "04/04/2024")
	assert.Contains(t, text, "Sem prazo")
	assert.Contains(t, text, "2 edital(is)")
}

func TestRenderNotices_Empty(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, cli.RenderNotices(&out, nil, renderNow))
	assert.Equal(t, "Nenhum edital encontrado.\n", out.String())
}

func TestRenderSources_NeverScraped(t *testing.T) {
	var out bytes.Buffer

	sources := []models.Source{
		{ID: 1, Name: "Funarte", URL: "https://funarte.gov.br", Type: models.SourceTypeWeb, Active: true},
	}

	require.NoError(t, cli.RenderSources(&out, sources))
	assert.Contains(t, out.String(), "Nunca")
	assert.Contains(t, out.String(), "WEB")
}

func TestRenderPreview_LimitsItems(t *testing.T) {
	var out bytes.Buffer

	items := make([]models.PreviewItem, 0, 8)
	for i := 1; i <= 8; i++ {
		items = append(items, models.PreviewItem{Title: fmt.Sprintf("item-%d", i), Link: "https://x.org"})
	}

	snapshot := service.PreviewSnapshot{
		State:   service.PreviewResolved,
		Preview: &models.Preview{Type: models.SourceTypeRSS, Title: "Feed", Items: items},
	}

	require.NoError(t, cli.RenderPreview(&out, snapshot))

	text := out.String()
	assert.Contains(t, text, "item-5")
	assert.NotContains(t, text, "item-6")
}

func TestRenderPreview_Failed(t *testing.T) {
	var out bytes.Buffer

	snapshot := service.PreviewSnapshot{State: service.PreviewFailed, ErrorMessage: "URL inválida"}

	require.NoError(t, cli.RenderPreview(&out, snapshot))
	assert.Equal(t, "Erro: URL inválida\n", out.String())
}

func TestRenderBanner(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, cli.RenderBanner(&out, service.StatusBanner{Kind: service.StatusError, Message: "falhou"}))
	require.NoError(t, cli.RenderBanner(&out, service.StatusBanner{Kind: service.StatusSuccess, Message: "pronto"}))
	assert.Equal(t, "[ERRO] falhou\n[OK] pronto\n", out.String())
}
