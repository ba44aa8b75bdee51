package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/cultura-alerta/go-editais/internal/console/cache"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

// ResyncService invalida o cache e rebusca todas as coleções do console.
// Substitui o recarregamento completo da página.
type ResyncService struct {
	cache     cache.SnapshotCache
	notices   *NoticeFilterEngine
	sources   *SourceRegistry
	publisher ResyncPublisher
	origin    string
	logger    *slog.Logger
}

func NewResyncService(
	snapshotCache cache.SnapshotCache,
	notices *NoticeFilterEngine,
	sources *SourceRegistry,
	publisher ResyncPublisher,
	logger *slog.Logger,
) *ResyncService {
	return &ResyncService{
		cache:     snapshotCache,
		notices:   notices,
		sources:   sources,
		publisher: publisher,
		origin:    uuid.NewString(),
		logger:    logger,
	}
}

// Origin identifica esta sessão nos eventos de ressincronização.
func (s *ResyncService) Origin() string {
	return s.origin
}

func (s *ResyncService) ResyncAll(ctx context.Context) error {
	var err error

	if s.cache != nil {
		err = multierr.Append(err, s.cache.Invalidate(ctx))
	}

	if s.notices != nil {
		err = multierr.Append(err, s.notices.Load(ctx))

		_, categoriesErr := s.notices.LoadCategories(ctx, false)
		err = multierr.Append(err, categoriesErr)
	}

	if s.sources != nil {
		_, sourcesErr := s.sources.List(ctx)
		err = multierr.Append(err, sourcesErr)
	}

	if err != nil {
		s.logger.Warn("Ressincronização concluída com erros",
			"errors", len(multierr.Errors(err)),
			"error", err,
		)

		return err
	}

	s.logger.Info("Ressincronização concluída")

	return nil
}

func (s *ResyncService) Announce(ctx context.Context, reason models.RefreshAction) error {
	if s.publisher == nil {
		return nil
	}

	return s.publisher.PublishResync(ctx, models.ResyncEvent{
		Reason: reason,
		Origin: s.origin,
		At:     time.Now().UTC(),
	})
}

// HandleResyncEvent ressincroniza quando outra sessão alterou o backend.
// Eventos publicados por esta própria sessão são ignorados.
func (s *ResyncService) HandleResyncEvent(ctx context.Context, event models.ResyncEvent) error {
	if event.Origin == s.origin {
		s.logger.Debug("Ignorando evento de ressincronização da própria sessão")
		return nil
	}

	s.logger.Info("Evento de ressincronização recebido",
		"reason", event.Reason,
		"origin", event.Origin,
	)

	return s.ResyncAll(ctx)
}
