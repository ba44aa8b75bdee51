package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func TestParseDeadlineBucket(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.DeadlineBucket
		wantErr bool
	}{
		{raw: "", want: models.BucketNone},
		{raw: "7", want: models.Bucket7},
		{raw: " 15 ", want: models.Bucket15},
		{raw: "30", want: models.Bucket30},
		{raw: "10", wantErr: true},
		{raw: "sete", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := models.ParseDeadlineBucket(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSourceType(t *testing.T) {
	got, err := models.ParseSourceType("RSS")
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeRSS, got)

	_, err = models.ParseSourceType("api")
	require.Error(t, err)
}

func TestFilterCriteria_QueryParams(t *testing.T) {
	criteria := models.FilterCriteria{
		Search:     "teatro",
		Categoria:  "all",
		DataInicio: "2024-04-01",
	}

	assert.Equal(t, map[string]string{
		"search":      "teatro",
		"data_inicio": "2024-04-01",
	}, criteria.QueryParams())

	assert.Empty(t, models.FilterCriteria{}.QueryParams())
	assert.True(t, models.FilterCriteria{}.IsEmpty())
}

func TestNotice_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"id": 3,
		"nome": "Edital de Fomento ao Teatro",
		"link": "https://example.com/edital3",
		"data_publicacao": "2024-03-10T00:00:00Z",
		"data_vencimento": null,
		"categoria": "Teatro",
		"descricao": null,
		"fonte": "Funarte"
	}`

	var notice models.Notice
	require.NoError(t, json.Unmarshal([]byte(payload), &notice))

	assert.Equal(t, int64(3), notice.ID)
	assert.Nil(t, notice.DataVencimento)
	assert.Equal(t, "Teatro", notice.CategoriaValue())
	assert.Equal(t, "", notice.DescricaoValue())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), notice.DataPublicacao)
}

func TestPreview_VisibleItems(t *testing.T) {
	preview := &models.Preview{Type: models.SourceTypeRSS, Items: make([]models.PreviewItem, 8)}
	assert.Len(t, preview.VisibleItems(), models.MaxPreviewItems)
}

func TestSourcePatch_IsEmpty(t *testing.T) {
	assert.True(t, (&models.SourcePatch{}).IsEmpty())

	active := false
	assert.False(t, (&models.SourcePatch{Active: &active}).IsEmpty())
}

func TestParseTimestamp_NaiveIsoformatIsUTC(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2024-04-08T00:00:00", want: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)},
		{raw: "2024-04-08T10:30:00.123456", want: time.Date(2024, 4, 8, 10, 30, 0, 123456000, time.UTC)},
		{raw: "2024-04-08T00:00:00Z", want: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)},
		{raw: "2024-04-08", want: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := models.ParseTimestamp(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := models.ParseTimestamp("ontem")
	require.Error(t, err)
}

func TestSource_DecodeNeverScraped(t *testing.T) {
	payload := `{"id": 1, "name": "Funarte", "url": "https://funarte.gov.br/feed", "type": "rss",
		"active": true, "last_scrape": null, "config": {}}`

	var source models.Source
	require.NoError(t, json.Unmarshal([]byte(payload), &source))

	assert.Equal(t, models.SourceTypeRSS, source.Type)
	assert.True(t, source.Active)
	assert.Nil(t, source.LastScrape)
}
