package service

import (
	"context"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type PreviewClient interface {
	PreviewSource(ctx context.Context, url string, sourceType models.SourceType) (*models.Preview, error)
}

type SourceClient interface {
	ListSources(ctx context.Context) ([]models.Source, error)
	CreateSource(ctx context.Context, input models.SourceInput) (*models.Source, error)
	UpdateSource(ctx context.Context, id int64, patch models.SourcePatch) (*models.Source, error)
	DeleteSource(ctx context.Context, id int64) error
}

type NoticeClient interface {
	ListNotices(ctx context.Context, params map[string]string) ([]models.Notice, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type RefreshClient interface {
	UpdateFeeds(ctx context.Context) (*models.ActionResult, error)
	ClearCache(ctx context.Context) (*models.ActionResult, error)
}

// Confirmer pede confirmação explícita antes de uma ação destrutiva.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Resyncer interface {
	ResyncAll(ctx context.Context) error
	Announce(ctx context.Context, reason models.RefreshAction) error
}

type ResyncPublisher interface {
	PublishResync(ctx context.Context, event models.ResyncEvent) error
}

// FormObserver recebe as mudanças de url/tipo do formulário de criação.
type FormObserver interface {
	OnInput(rawURL string, sourceType models.SourceType) error
	Reset()
}

// NameFiller preenche o nome do formulário com o título do preview, se ainda vazio.
type NameFiller interface {
	FillNameIfEmpty(name string) bool
}

const (
	DeleteSourcePrompt = "Tem certeza que deseja excluir esta fonte?"
	ClearCachePrompt   = "Tem certeza que deseja limpar todos os editais salvos? Esta ação não pode ser desfeita."
)
